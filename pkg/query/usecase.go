package query

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hackrx/llm-atlas/pkg/document"
	"github.com/hackrx/llm-atlas/pkg/ingest"
	"github.com/hackrx/llm-atlas/pkg/llm"
)

// FallbackAnswer is returned verbatim for questions the document context
// cannot answer. The prompt instructs the model to use the same phrase.
const FallbackAnswer = "The provided context does not contain sufficient information to answer this question."

// Searcher is the retrieval slice of the vector store.
type Searcher interface {
	Search(ctx context.Context, vector []float32, k int) ([]document.Match, error)
}

// UseCase answers a list of questions against an indexed document.
type UseCase interface {
	Run(ctx context.Context, documentURL string, questions []string) ([]string, error)
}

type service struct {
	ingest       ingest.UseCase
	search       Searcher
	embedder     llm.Embedder
	chat         llm.ChatModel
	topK         int
	maxParallel  int
	answerSplit  *regexp.Regexp
	leadingIndex *regexp.Regexp
}

func NewService(ing ingest.UseCase, search Searcher, embedder llm.Embedder, chat llm.ChatModel, topK int) UseCase {
	if topK <= 0 {
		topK = 5
	}
	return &service{
		ingest:       ing,
		search:       search,
		embedder:     embedder,
		chat:         chat,
		topK:         topK,
		maxParallel:  4,
		answerSplit:  regexp.MustCompile(`\n\d+\.\s*`),
		leadingIndex: regexp.MustCompile(`^\d+\.\s*`),
	}
}

func (s *service) Run(ctx context.Context, documentURL string, questions []string) ([]string, error) {
	if err := s.ingest.EnsureIndexed(ctx, documentURL); err != nil {
		return nil, err
	}

	matches, err := s.retrieve(ctx, questions)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		answers := make([]string, len(questions))
		for i := range answers {
			answers[i] = FallbackAnswer
		}
		return answers, nil
	}

	logrus.WithFields(logrus.Fields{
		"questions": len(questions),
		"chunks":    len(matches),
	}).Info("Sending batch request to the LLM")
	reply, err := s.chat.Ask(ctx, systemPrompt, s.userPrompt(matches, questions))
	if err != nil {
		return nil, fmt.Errorf("llm request: %w", err)
	}

	answers := s.parseAnswers(reply)
	if len(answers) != len(questions) {
		logrus.WithFields(logrus.Fields{
			"got":      len(answers),
			"expected": len(questions),
		}).Warn("LLM did not return the expected number of answers, returning raw output")
		return []string{reply}, nil
	}
	return answers, nil
}

// retrieve embeds every question and fans the vector searches out. Results
// are deduplicated by chunk text, keeping question order deterministic.
func (s *service) retrieve(ctx context.Context, questions []string) ([]document.Match, error) {
	perQuestion := make([][]document.Match, len(questions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i, q := range questions {
		i, q := i, q
		g.Go(func() error {
			vector, err := s.embedder.EmbedQuery(gctx, q)
			if err != nil {
				return fmt.Errorf("embed question: %w", err)
			}
			matches, err := s.search.Search(gctx, vector, s.topK)
			if err != nil {
				return err
			}
			perQuestion[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var unique []document.Match
	for _, matches := range perQuestion {
		for _, m := range matches {
			if _, ok := seen[m.Text]; ok {
				continue
			}
			seen[m.Text] = struct{}{}
			unique = append(unique, m)
		}
	}
	return unique, nil
}

const systemPrompt = `You are an expert AI assistant for analyzing legal and policy documents. Your goal is to answer a list of questions based exclusively on the provided context.

Instructions:
1. Carefully read the entire context to understand the document's content.
2. Answer each question from the list one by one.
3. Your response MUST be a numbered list, where each number corresponds to the question number.
4. Each answer must be a clear, concise, and objective statement derived only from the provided context.
5. Write full and formal sentences instead of 2-3 words.
6. CRITICAL: If the information to answer a specific question is not in the context, you MUST write the exact phrase: "` + FallbackAnswer + `" for that corresponding number.
7. Do not add any preamble or closing remarks. Your output should begin immediately with "1."`

func (s *service) userPrompt(matches []document.Match, questions []string) string {
	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Text
	}
	numbered := make([]string, len(questions))
	for i, q := range questions {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, q)
	}
	return fmt.Sprintf("Context from the document:\n---\n%s\n---\n\nQuestions:\n---\n%s\n---",
		strings.Join(texts, "\n\n---\n\n"),
		strings.Join(numbered, "\n"),
	)
}

// parseAnswers splits a numbered-list reply into individual answers.
func (s *service) parseAnswers(reply string) []string {
	parts := s.answerSplit.Split("\n"+strings.TrimSpace(reply), -1)
	answers := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(s.leadingIndex.ReplaceAllString(strings.TrimSpace(p), ""))
		if p != "" {
			answers = append(answers, p)
		}
	}
	return answers
}
