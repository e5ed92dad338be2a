package grader

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"syntax_feed_backend/internal/model"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
)

// Judge0 language ids for the languages the catalog ships exercises in.
var judge0Languages = map[string]int{
	"python":     71,
	"javascript": 63,
	"c++":        54,
	"c":          50,
	"go":         60,
	"java":       62,
	"sql":        82,
}

type Judge0Config struct {
	URL         string        `mapstructure:"url"`
	APIKey      string        `mapstructure:"api_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
}

// Judge0Grader submits the code once per test case with the test input as
// stdin. A test passes when trimmed stdout equals the trimmed expected value.
type Judge0Grader struct {
	client      *resty.Client
	concurrency int
}

func NewJudge0Grader(cfg Judge0Config) *Judge0Grader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("X-Auth-Token", cfg.APIKey)
	}
	return &Judge0Grader{client: client, concurrency: cfg.Concurrency}
}

func (g *Judge0Grader) Name() string { return ModeJudge0 }

type judge0Submission struct {
	SourceCode     string `json:"source_code"`
	LanguageID     int    `json:"language_id"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output,omitempty"`
}

type judge0Result struct {
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Message       *string `json:"message"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

func (r judge0Result) output() string {
	for _, s := range []*string{r.Stdout, r.CompileOutput, r.Stderr, r.Message} {
		if s != nil && *s != "" {
			return *s
		}
	}
	return r.Status.Description
}

func (g *Judge0Grader) Grade(ctx context.Context, ex model.PracticeExercise, code string) (*Report, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrEmptyCode
	}
	langID, ok := judge0Languages[strings.ToLower(ex.Language)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, ex.Language)
	}
	started := time.Now()

	results := make([]TestResult, len(ex.Tests))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, tc := range ex.Tests {
		i, tc := i, tc
		eg.Go(func() error {
			out, err := g.run(ctx, judge0Submission{
				SourceCode:     code,
				LanguageID:     langID,
				Stdin:          tc.Input,
				ExpectedOutput: tc.Expected,
			})
			if err != nil {
				return err
			}
			results[i] = TestResult{
				Index:       i,
				Description: tc.Description,
				Input:       tc.Input,
				Expected:    tc.Expected,
				Output:      out,
				Passed:      strings.TrimSpace(out) == strings.TrimSpace(tc.Expected),
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return newReport(g.Name(), ex, results, started), nil
}

func (g *Judge0Grader) run(ctx context.Context, sub judge0Submission) (string, error) {
	var res judge0Result
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"base64_encoded": "false", "wait": "true"}).
		SetBody(sub).
		SetResult(&res).
		Post("/submissions")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGraderUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return "", fmt.Errorf("%w: judge0 returned %d: %s", ErrGraderUnavailable, resp.StatusCode(), resp.String())
	}
	return res.output(), nil
}
