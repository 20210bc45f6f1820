// Command readable extracts the readable content of a web page and prints
// it as HTML, plain text or JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/yosssi/gohtml"
	"gopkg.in/yaml.v3"

	"github.com/openread/readability"
)

type fileConfig struct {
	Output            string   `yaml:"output"`
	CharThreshold     int      `yaml:"charThreshold"`
	TopCandidates     int      `yaml:"topCandidates"`
	MaxElems          int      `yaml:"maxElems"`
	KeepClasses       bool     `yaml:"keepClasses"`
	ClassesToPreserve []string `yaml:"classesToPreserve"`
	FlattenTables     bool     `yaml:"flattenTables"`
	IgnoreLinkDensity bool     `yaml:"ignoreLinkDensity"`
	DisableJSONLD     bool     `yaml:"disableJsonLd"`
	Timeout           string   `yaml:"timeout"`
}

type cliFlags struct {
	configPath        string
	output            string
	baseURL           string
	charThreshold     int
	topCandidates     int
	maxElems          int
	keepClasses       bool
	classesToPreserve []string
	flattenTables     bool
	ignoreLinkDensity bool
	disableJSONLD     bool
	timeout           time.Duration
	verbose           bool
}

type jsonArticle struct {
	Title         string     `json:"title"`
	Byline        string     `json:"byline,omitempty"`
	Dir           string     `json:"dir,omitempty"`
	Content       string     `json:"content"`
	TextContent   string     `json:"textContent"`
	Length        int        `json:"length"`
	Excerpt       string     `json:"excerpt,omitempty"`
	SiteName      string     `json:"siteName,omitempty"`
	SiteIcon      string     `json:"siteIcon,omitempty"`
	PreviewImage  string     `json:"previewImage,omitempty"`
	PublishedDate *time.Time `json:"publishedDate,omitempty"`
	Language      string     `json:"language,omitempty"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "readable [url|file|-]",
		Short: "extract the readable content of a web page",
		Long: `readable fetches a web page (or reads it from a file or stdin) and
extracts the article content, stripped of navigation, ads and other
clutter.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfigFile(cmd, flags); err != nil {
				return err
			}
			return runExtract(cmd, flags, args[0])
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 30*time.Second, "timeout for fetching the page")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.Flags().StringVarP(&flags.output, "output", "o", "html", "output format: html, text or json")
	cmd.Flags().StringVar(&flags.baseURL, "url", "", "base URL of the document, required when reading from a file or stdin")
	cmd.Flags().IntVar(&flags.charThreshold, "char-threshold", 0, "minimum number of characters an extraction must yield")
	cmd.Flags().IntVar(&flags.topCandidates, "top-candidates", 0, "number of top candidates to consider")
	cmd.Flags().IntVar(&flags.maxElems, "max-elems", 0, "abort when the document has more elements than this (0 is no limit)")
	cmd.Flags().BoolVar(&flags.keepClasses, "keep-classes", false, "preserve all class attributes on the output")
	cmd.Flags().StringSliceVar(&flags.classesToPreserve, "preserve-class", nil, "class to preserve on the output, repeatable")
	cmd.Flags().BoolVar(&flags.flattenTables, "flatten-tables", false, "flatten layout tables, useful for newsletters")
	cmd.Flags().BoolVar(&flags.ignoreLinkDensity, "ignore-link-density", false, "do not penalize link-heavy content")
	cmd.Flags().BoolVar(&flags.disableJSONLD, "disable-json-ld", false, "skip JSON-LD metadata extraction")

	cmd.AddCommand(newCheckCmd(flags))

	return cmd
}

func newCheckCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [url|file|-]",
		Short: "check whether a page is probably reader-able",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _, err := readSource(cmd.Context(), args[0], flags.timeout)
			if err != nil {
				return err
			}
			readerable := readability.IsProbablyReaderable(source)
			fmt.Fprintln(cmd.OutOrStdout(), readerable)
			if !readerable {
				os.Exit(1)
			}
			return nil
		},
	}
}

// applyConfigFile fills in flags the user did not set explicitly from the
// YAML config file, when one is given.
func applyConfigFile(cmd *cobra.Command, flags *cliFlags) error {
	if flags.configPath == "" {
		return nil
	}
	raw, err := os.ReadFile(flags.configPath)
	if err != nil {
		return fmt.Errorf("cannot read config file: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("cannot parse config file %s: %w", flags.configPath, err)
	}

	if !cmd.Flags().Changed("output") && cfg.Output != "" {
		flags.output = cfg.Output
	}
	if !cmd.Flags().Changed("char-threshold") && cfg.CharThreshold > 0 {
		flags.charThreshold = cfg.CharThreshold
	}
	if !cmd.Flags().Changed("top-candidates") && cfg.TopCandidates > 0 {
		flags.topCandidates = cfg.TopCandidates
	}
	if !cmd.Flags().Changed("max-elems") && cfg.MaxElems > 0 {
		flags.maxElems = cfg.MaxElems
	}
	if !cmd.Flags().Changed("keep-classes") {
		flags.keepClasses = flags.keepClasses || cfg.KeepClasses
	}
	if !cmd.Flags().Changed("preserve-class") && len(cfg.ClassesToPreserve) > 0 {
		flags.classesToPreserve = cfg.ClassesToPreserve
	}
	if !cmd.Flags().Changed("flatten-tables") {
		flags.flattenTables = flags.flattenTables || cfg.FlattenTables
	}
	if !cmd.Flags().Changed("ignore-link-density") {
		flags.ignoreLinkDensity = flags.ignoreLinkDensity || cfg.IgnoreLinkDensity
	}
	if !cmd.Flags().Changed("disable-json-ld") {
		flags.disableJSONLD = flags.disableJSONLD || cfg.DisableJSONLD
	}
	if !cmd.Flags().Changed("timeout") && cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout in config file: %w", err)
		}
		flags.timeout = d
	}
	return nil
}

func runExtract(cmd *cobra.Command, flags *cliFlags, target string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	source, uri, err := readSource(ctx, target, flags.timeout)
	if err != nil {
		return err
	}
	if flags.baseURL != "" {
		uri = flags.baseURL
	}

	opts := []readability.Option{}
	if flags.verbose {
		opts = append(opts, readability.Debug(true))
	} else {
		opts = append(opts, readability.Logger(zerolog.New(os.Stderr).Level(zerolog.WarnLevel)))
	}
	if flags.charThreshold > 0 {
		opts = append(opts, readability.CharThreshold(flags.charThreshold))
	}
	if flags.topCandidates > 0 {
		opts = append(opts, readability.NTopCandidates(flags.topCandidates))
	}
	if flags.maxElems > 0 {
		opts = append(opts, readability.MaxElemsToParse(flags.maxElems))
	}
	if flags.keepClasses {
		opts = append(opts, readability.KeepClasses(true))
	}
	if len(flags.classesToPreserve) > 0 {
		opts = append(opts, readability.ClassesToPreserve(flags.classesToPreserve...))
	}
	if flags.flattenTables {
		opts = append(opts, readability.FlattenTables(true))
	}
	if flags.ignoreLinkDensity {
		opts = append(opts, readability.IgnoreLinkDensity(true))
	}
	if flags.disableJSONLD {
		opts = append(opts, readability.DisableJSONLD(true))
	}

	parser, err := readability.New(source, uri, opts...)
	if err != nil {
		return err
	}
	article, err := parser.Parse(ctx)
	if err != nil {
		return err
	}
	if article == nil {
		return fmt.Errorf("no readable content found in %s", target)
	}

	out := cmd.OutOrStdout()
	switch flags.output {
	case "html":
		fmt.Fprintln(out, gohtml.Format(article.Content))
	case "text":
		fmt.Fprintln(out, article.TextContent)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonArticle{
			Title:         article.Title,
			Byline:        article.Byline,
			Dir:           article.Dir,
			Content:       article.Content,
			TextContent:   article.TextContent,
			Length:        article.Length,
			Excerpt:       article.Excerpt,
			SiteName:      article.SiteName,
			SiteIcon:      article.SiteIcon,
			PreviewImage:  article.PreviewImage,
			PublishedDate: article.PublishedDate,
			Language:      article.Language,
		})
	default:
		return fmt.Errorf("unknown output format %q", flags.output)
	}
	return nil
}

// readSource loads the HTML either from an http(s) URL, a local file, or
// stdin when the target is "-". It returns the source and the URL to
// resolve relative links against.
func readSource(ctx context.Context, target string, timeout time.Duration) (string, string, error) {
	if target == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("cannot read stdin: %w", err)
		}
		return string(raw), "", nil
	}

	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return "", "", err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return "", "", fmt.Errorf("cannot fetch %s: %w", target, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", "", fmt.Errorf("cannot fetch %s: %s", target, resp.Status)
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", "", err
		}
		return string(raw), resp.Request.URL.String(), nil
	}

	raw, err := os.ReadFile(target)
	if err != nil {
		return "", "", fmt.Errorf("cannot read %s: %w", target, err)
	}
	return string(raw), "", nil
}
