package cmd

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/thundertrack/frameapi/config"
	"github.com/thundertrack/frameapi/frame"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a diary page or summary image without serving it",
	Long: `Render the documents the service would return, for inspection or static hosting.

Subcommands:
  image - SVG summary image
  diary - HTML diary page with the mini app embed

Examples:
  thunderframe render image --pair BTC/USDT --pnl 120.5 -o btc.svg
  thunderframe render diary --pair ETH --pnl -3 --id abc123 --variant card`,
}

var renderImageCmd = &cobra.Command{
	Use:   "image",
	Short: "Render the SVG summary image",
	Args:  cobra.NoArgs,
	RunE:  runRenderImage,
}

var renderDiaryCmd = &cobra.Command{
	Use:   "diary",
	Short: "Render the HTML diary page",
	Args:  cobra.NoArgs,
	RunE:  runRenderDiary,
}

var (
	renderFields  frame.Fields
	renderOrigin  string
	renderVariant string
	renderOutput  string
)

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.AddCommand(renderImageCmd)
	renderCmd.AddCommand(renderDiaryCmd)

	pf := renderCmd.PersistentFlags()
	pf.StringVar(&renderFields.Pair, "pair", "", "trading pair")
	pf.StringVar(&renderFields.PnL, "pnl", "", "profit or loss")
	pf.StringVar(&renderFields.Strategy, "strategy", "", "strategy name")
	pf.StringVar(&renderFields.Sentiment, "sentiment", "", "sentiment")
	pf.StringVarP(&renderOutput, "output", "o", "", "output file (default stdout)")

	renderDiaryCmd.Flags().StringVar(&renderFields.ID, "id", "", "diary id (derived when empty)")
	renderDiaryCmd.Flags().StringVar(&renderOrigin, "origin", "http://localhost:3000", "base URL the page links back to")
	renderDiaryCmd.Flags().StringVar(&renderVariant, "variant", "", "diary body: redirect|card (default from config)")
}

func newComposer(cfg *config.Config) (*frame.Composer, error) {
	opts, err := cfg.ComposerOptions()
	if err != nil {
		return nil, fmt.Errorf("composer options: %w", err)
	}
	return frame.NewComposer(opts), nil
}

func runRenderImage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := newComposer(cfg)
	if err != nil {
		return err
	}
	doc, err := c.Image(renderFields)
	if err != nil {
		return err
	}
	return writeDocument(cmd, doc)
}

func runRenderDiary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	variant := cfg.Variant()
	if renderVariant != "" {
		if variant, err = frame.ParseVariant(renderVariant); err != nil {
			return err
		}
	}

	c, err := newComposer(cfg)
	if err != nil {
		return err
	}

	f := renderFields.WithDefaults()
	doc, err := c.Document(f, frame.Request{
		BaseURL:  renderOrigin,
		RawQuery: queryOf(f),
	}, variant)
	if err != nil {
		return err
	}
	if err := writeDocument(cmd, doc); err != nil {
		return err
	}
	if renderOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "diary id: %s\n", doc.DiaryID)
	}
	return nil
}

// queryOf rebuilds the query string the diary endpoint would have received.
func queryOf(f frame.Fields) string {
	q := url.Values{}
	q.Set("pair", f.Pair)
	q.Set("pnl", f.PnL)
	q.Set("strategy", f.Strategy)
	q.Set("sentiment", f.Sentiment)
	if f.ID != "" {
		q.Set("id", f.ID)
	}
	return q.Encode()
}

func writeDocument(cmd *cobra.Command, doc frame.Document) error {
	if renderOutput == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), doc.Body)
		return err
	}
	if err := os.WriteFile(renderOutput, []byte(doc.Body), 0644); err != nil {
		return fmt.Errorf("write %s: %w", renderOutput, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s (%s)\n", renderOutput, doc.ContentType)
	return nil
}
