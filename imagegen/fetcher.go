package imagegen

import (
	"fmt"
	"image"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"time"

	// Generation endpoints answer with jpeg, png or webp depending on
	// the model; register all three decoders for validation
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"slidecast/config"
)

// Fetcher downloads one rendered image per prompt from a remote
// generation endpoint and validates it before handing it to the queue.
// It performs no retries; a failed item is the caller's problem.
type Fetcher struct {
	BaseURL string
	Client  *http.Client

	// Sleep is swappable for tests; nil means time.Sleep
	Sleep func(time.Duration)
	// Seed supplies the cache-busting request seed; nil means a random
	// 32-bit value per request
	Seed func() uint32
}

// NewFetcher returns a Fetcher against the configured endpoint with the
// long generation timeout
func NewFetcher() *Fetcher {
	return &Fetcher{
		BaseURL: config.ImageEndpoint,
		Client:  &http.Client{Timeout: config.ImageRequestTimeout},
	}
}

// Fetch requests a width x height render of prompt, writes it to
// destPath and validates it. After a validated success it sleeps
// delaySeconds to keep the request rate below the endpoint's limits;
// rejected downloads do not sleep.
func (f *Fetcher) Fetch(prompt string, width, height int, model, destPath string, delaySeconds int) error {
	requestURL := fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&model=%s&seed=%d&nologo=true",
		f.BaseURL, url.PathEscape(prompt), width, height, url.QueryEscape(model), f.seed())

	resp, err := f.Client.Get(requestURL)
	if err != nil {
		return fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image endpoint returned status %d", resp.StatusCode)
	}

	if err := writeFile(destPath, resp.Body); err != nil {
		os.Remove(destPath)
		return fmt.Errorf("failed to save image: %w", err)
	}

	if err := validateImage(destPath); err != nil {
		os.Remove(destPath)
		return err
	}

	if delaySeconds > 0 {
		log.Printf("Waiting %ds before next image request...", delaySeconds)
		f.sleep(time.Duration(delaySeconds) * time.Second)
	}

	return nil
}

// validateImage reopens the downloaded file and decodes it; a payload
// that is not an image, or renders under the minimum dimension on
// either axis, counts as a failed generation
func validateImage(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return fmt.Errorf("downloaded file is not a valid image: %w", err)
	}

	if cfg.Width < config.MinImageDimension || cfg.Height < config.MinImageDimension {
		return fmt.Errorf("image too small: %dx%d", cfg.Width, cfg.Height)
	}

	return nil
}

func writeFile(path string, body io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	n, err := io.Copy(out, body)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("empty response body")
	}
	return nil
}

func (f *Fetcher) sleep(d time.Duration) {
	if f.Sleep != nil {
		f.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (f *Fetcher) seed() uint32 {
	if f.Seed != nil {
		return f.Seed()
	}
	return rand.Uint32()
}
