package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"adsstudio/internal/domain"
	"adsstudio/internal/infrastructure"
	"adsstudio/internal/usecase"
	"adsstudio/pkg/config"
	"adsstudio/pkg/logger"
	"adsstudio/pkg/metrics"

	"github.com/atotto/clipboard"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type app struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "adsstudio",
		Short:         "Ads Studio - campaign previews from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if apiBase, _ := cmd.Flags().GetString("api-base"); apiBase != "" {
				cfg.Generation.APIBase = apiBase
			}
			level := cfg.Logging.Level
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				level = "debug"
			}

			a.cfg = cfg
			a.log = logger.NewWithOutput(level, os.Stderr)
			a.metrics = metrics.New(prometheus.NewRegistry())
			return nil
		},
	}

	rootCmd.PersistentFlags().String("api-base", "", "Generation service base URL (overrides API_BASE)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(a.generateCmd())
	rootCmd.AddCommand(a.defaultsCmd())
	rootCmd.AddCommand(a.normalizeURLCmd())
	rootCmd.AddCommand(a.encodeImageCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) generateCmd() *cobra.Command {
	var (
		formPath, planOut, copyURL, imagePath, imageURL string
		addSegments                                     int
		dropSegments                                    []int
		resetSegments, noImage                          bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Submit a campaign form and print the resulting state",
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := readForm(cmd.InOrStdin(), formPath)
			if err != nil {
				return err
			}

			if resetSegments {
				form = form.ResetPersonas()
			}
			sort.Sort(sort.Reverse(sort.IntSlice(dropSegments)))
			for _, i := range dropSegments {
				form = form.RemovePersona(i)
			}
			for i := 0; i < addSegments; i++ {
				form = form.AddPersona()
			}

			switch {
			case noImage:
				form = form.ClearImage()
			case imageURL != "":
				form = form.WithImageURL(imageURL)
			}

			if imagePath != "" {
				data, err := os.ReadFile(imagePath)
				if err != nil {
					return fmt.Errorf("failed to read image: %w", err)
				}
				image, err := infrastructure.NewImageEncoder(a.cfg.Studio.MaxImageBytes).Encode(imagePath, data)
				if err != nil {
					return err
				}
				form = form.WithUploadedImage(image.DataURL, image.PreviewURL)
			}

			client := infrastructure.NewHTTPClient(infrastructure.HTTPClientOptions{
				Timeout: a.cfg.Generation.RequestTimeout,
			}, a.log, a.metrics)
			submissions := usecase.NewSubmissionService(client, a.cfg.Generation.APIBase, a.log, a.metrics)

			state := submissions.Submit(cmd.Context(), domain.IdleState(), form)
			if err := printJSON(cmd.OutOrStdout(), state); err != nil {
				return err
			}
			if state.Status == domain.StatusFailed {
				return errors.New(state.Error)
			}

			if planOut != "" {
				if err := writePlan(state.Result, planOut); err != nil {
					return err
				}
				a.log.WithField("path", planOut).Info("Plan written")
			}
			if copyURL != "" {
				if err := copyPreviewURL(state.Result, copyURL, formImage(form)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formPath, "form", "f", "", "Campaign form JSON file (\"-\" for stdin, default form when empty)")
	cmd.Flags().StringVar(&planOut, "plan-out", "", "Write the returned plan to this file")
	cmd.Flags().StringVar(&copyURL, "copy-url", "", "Copy a preview URL to the clipboard (google, meta or meta-image)")
	cmd.Flags().StringVar(&imagePath, "image", "", "Attach a local image file as the ad creative")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "Use a hosted image as the ad creative")
	cmd.Flags().BoolVar(&noImage, "no-image", false, "Drop any image carried by the form")
	cmd.Flags().IntVar(&addSegments, "add-segment", 0, "Append this many default audience segments")
	cmd.Flags().IntSliceVar(&dropSegments, "drop-segment", nil, "Remove the audience segment at this index (repeatable)")
	cmd.Flags().BoolVar(&resetSegments, "reset-segments", false, "Replace the audience segments with the default one")
	cmd.MarkFlagsMutuallyExclusive("image-url", "no-image")
	return cmd
}

func (a *app) defaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Print the default campaign form",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), domain.DefaultCampaignForm())
		},
	}
}

func (a *app) normalizeURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize-url <url>",
		Short: "Print the normalized form of a website URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), usecase.NormalizeURL(args[0]))
			return err
		},
	}
}

func (a *app) encodeImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode-image <path>",
		Short: "Encode an image file as a data URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			image, err := infrastructure.NewImageEncoder(a.cfg.Studio.MaxImageBytes).Encode(args[0], data)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), image.DataURL)
			return err
		},
	}
}

func readForm(stdin io.Reader, path string) (domain.CampaignForm, error) {
	if path == "" {
		return domain.DefaultCampaignForm(), nil
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.CampaignForm{}, fmt.Errorf("failed to read form: %w", err)
	}

	var form domain.CampaignForm
	if err := json.Unmarshal(data, &form); err != nil {
		return domain.CampaignForm{}, fmt.Errorf("failed to parse form: %w", err)
	}
	return form, nil
}

func writePlan(result *domain.GenerationResult, path string) error {
	if !result.HasPlan() {
		return domain.ErrNoPlan
	}
	data, err := usecase.MarshalPlan(result.Plan)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}

// copyPreviewURL copies a card URL, or the meta creative with the form image as fallback
func copyPreviewURL(result *domain.GenerationResult, card, formImage string) error {
	if !result.HasPreview() {
		return errors.New("no preview to copy from")
	}

	var url string
	switch card {
	case "google":
		if c := result.Preview.GoogleSearchCard; c != nil {
			url = c.URL
		}
	case "meta":
		if c := result.Preview.MetaFeedCard; c != nil {
			url = c.URL
		}
	case "meta-image":
		if c := result.Preview.MetaFeedCard; c != nil {
			url = c.DisplayImage(formImage)
		}
	default:
		return fmt.Errorf("unknown preview card %q (want google, meta or meta-image)", card)
	}
	if url == "" {
		return fmt.Errorf("%s preview has no URL", card)
	}

	if err := clipboard.WriteAll(url); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// formImage is what the operator sees as their creative: a pasted URL or the upload
func formImage(form domain.CampaignForm) string {
	if form.ImageURL != "" {
		return form.ImageURL
	}
	return form.ImageBase64
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
