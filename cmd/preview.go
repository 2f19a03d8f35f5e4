package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Meltonq/autopost/internal/post"
)

var previewRubric string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the fallback post without publishing",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		rubric := previewRubric
		if rubric == "" && len(a.th.Rubrics) > 0 {
			rubric = a.th.Rubrics[0]
		}
		cta := ""
		if len(a.th.CTA) > 0 {
			cta = a.th.CTA[0]
		}

		p := post.New(post.Deps{Theme: a.th, History: a.history, Stats: a.stats})
		fmt.Println(p.FallbackCaption(rubric, cta))
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewRubric, "rubric", "", "Rubric to render (default: first in theme)")
	rootCmd.AddCommand(previewCmd)
}
