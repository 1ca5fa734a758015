package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/uilint/pkg/styleguide"
)

type queryAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Source   string `json:"source"`
}

func newQueryCmd(a *app) *cobra.Command {
	var noLLM bool

	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Ask the style guide a question",
		Long: `Query answers from the guide's own rules when the question names a category
(colors, fonts, spacing, components). Other questions go to Ollama when it is
running; otherwise the guide is summarized.`,
		Example: `  uilint query "what colors should I use?"
  uilint query "how do I style a disabled button?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			store, err := a.newStore()
			if err != nil {
				return err
			}
			defer store.Close()

			doc, err := a.loadGuide(store)
			if err != nil {
				return fmt.Errorf("%w\n%s", err, styleguide.MissingGuideMessage)
			}

			answer := queryAnswer{Question: question, Source: "guide"}
			if text, ok := styleguide.Answer(question, doc.Content); ok {
				answer.Answer = text
			} else if text, ok := a.askLLM(cmd, question, doc.Content, noLLM); ok {
				answer.Answer, answer.Source = text, "llm"
			} else {
				answer.Answer, answer.Source = styleguide.Fallback(doc.Content), "summary"
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput() {
				return printJSON(out, answer)
			}
			fmt.Fprintln(out, answer.Answer)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noLLM, "no-llm", false, "never ask Ollama")
	return cmd
}

// askLLM answers from Ollama when it is reachable. Failures are logged and
// reported as no answer.
func (a *app) askLLM(cmd *cobra.Command, question, guideDoc string, disabled bool) (string, bool) {
	if disabled {
		return "", false
	}
	client := a.newLLM()
	if !client.IsAvailable(cmd.Context()) {
		a.logger.Info("ollama not available, summarizing guide", "url", client.Config().BaseURL)
		return "", false
	}

	stop := a.spin(cmd, "Asking "+client.Config().Model)
	text, err := client.QueryStyleGuide(cmd.Context(), question, guideDoc)
	stop()
	if err != nil || text == "" {
		a.logger.Warn("llm query failed, summarizing guide", "error", err)
		return "", false
	}
	return text, true
}
