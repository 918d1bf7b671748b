// Command download saves every art crop of one card into a directory.
//
//	go run ./scripts/download --out ./art lightning bolt
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"mtgfactory/internal/card"
	"mtgfactory/internal/config"
	"mtgfactory/internal/scryfall"
)

const attribution = `Card Art Attribution
====================

The art crops in this directory were downloaded from Scryfall (https://scryfall.com).
Each artwork is owned by its illustrator; see the artist column printed during download.

The literal and graphical information presented about Magic: The Gathering, including card images,
the mana symbols, and Oracle text, is copyright Wizards of the Coast, LLC, a subsidiary of Hasbro, Inc.

This project is not produced by, endorsed by, supported by, or affiliated with Wizards of the Coast.
`

// downloader fetches images one at a time, waiting delay between requests
type downloader struct {
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	out       io.Writer
}

func newDownloader(client *http.Client, userAgent string, delay time.Duration, out io.Writer) *downloader {
	return &downloader{
		http:      client,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Every(delay), 1),
		out:       out,
	}
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// fileName is <set>-<collector number>.jpg, lower-case and path safe
func fileName(v card.ArtVersion) string {
	base := strings.ToLower(v.SetCode + "-" + v.CollectorNumber)
	base = strings.Trim(unsafeChars.ReplaceAllString(base, "-"), "-")
	if base == "" {
		base = "unknown"
	}
	return base + ".jpg"
}

// downloadAll saves the art crop of each version into dir, skipping files
// that already exist and versions without an art crop
func (d *downloader) downloadAll(ctx context.Context, dir string, versions []card.ArtVersion) (saved int, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create %s: %w", dir, err)
	}

	for _, v := range versions {
		if v.ArtCropURL == "" {
			fmt.Fprintf(d.out, "Skipping %s #%s (no art crop)\n", v.SetCode, v.CollectorNumber)
			continue
		}
		path := filepath.Join(dir, fileName(v))
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(d.out, "Skipping %s (already exists)\n", filepath.Base(path))
			continue
		}

		if err := d.limiter.Wait(ctx); err != nil {
			return saved, err
		}
		fmt.Fprintf(d.out, "Downloading %s #%s by %s...\n", v.SetCode, v.CollectorNumber, v.Artist)
		if err := d.save(ctx, v.ArtCropURL, path); err != nil {
			if errors.Is(err, context.Canceled) {
				return saved, err
			}
			fmt.Fprintf(d.out, "  Error: %v\n", err)
			continue
		}
		saved++
	}

	if err := os.WriteFile(filepath.Join(dir, "ATTRIBUTION.txt"), []byte(attribution), 0o644); err != nil {
		return saved, fmt.Errorf("write attribution: %w", err)
	}
	return saved, nil
}

func (d *downloader) save(ctx context.Context, imageURL, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	// write to a temp file so an interrupted download never looks complete
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func newRootCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "download <card name...>",
		Short:        "Download every art crop of one card",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			outDir, _ := cmd.Flags().GetString("out")
			delay, _ := cmd.Flags().GetDuration("delay")
			configPath, _ := cmd.Flags().GetString("config")

			if err := config.LoadEnvFile(".env"); err != nil {
				return err
			}
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if delay < scryfall.MinPageDelay {
				delay = scryfall.MinPageDelay
			}

			ctx := cmd.Context()
			client := scryfall.New(cfg.Scryfall.ClientConfig(log.New(io.Discard, "", 0)))

			found, err := client.LookupCard(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			versions := client.LookupArtVersions(ctx, found.Name)
			if len(versions) == 0 {
				return fmt.Errorf("no art versions found for %s", found.Name)
			}

			dir := filepath.Join(outDir, strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(found.Name), "-"), "-"))
			fmt.Fprintf(out, "%s: %d unique art versions\n", found.Name, len(versions))
			fmt.Fprintf(out, "Images will be saved to: %s\n\n", dir)

			d := newDownloader(&http.Client{Timeout: cfg.Scryfall.Timeout}, cfg.Scryfall.UserAgent, delay, out)
			saved, err := d.downloadAll(ctx, dir, versions)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nDownload complete! %d new images\n", saved)
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "art", "output directory")
	cmd.Flags().Duration("delay", time.Second, "pause between downloads")
	cmd.Flags().String("config", "", "config file")
	return cmd
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
