package document

// Format is the source document format, derived from the URL.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Document is a fetched and parsed source document.
type Document struct {
	SourceURL string
	Filename  string
	Format    Format
	Text      string
}

// Chunk is one indexed fragment of a document. Metadata keys mirror what the
// vector collection stores alongside the embedding.
type Chunk struct {
	ID       string
	Index    int
	Text     string
	Metadata Metadata
}

type Metadata struct {
	SourceDocument string `bson:"source_document" json:"source_document"`
	SourceURL      string `bson:"source_url" json:"source_url"`
}

// Match is one retrieved chunk with its vector search score.
type Match struct {
	Text     string
	Metadata Metadata
	Score    float64
}
