package datasource

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weather-panel/logger"
	"weather-panel/models"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultIconURL is where OpenWeatherMap serves condition icons. config uses
// it as the default for WEATHER_ICON_BASE_URL.
const DefaultIconURL = "http://openweathermap.org/img/wn"

// OpenWeatherMapIconSource downloads "<code>@2x.png" condition icons
type OpenWeatherMapIconSource struct {
	baseURL    string
	httpClient *http.Client
}

// Ensure OpenWeatherMapIconSource implements IconSource
var _ IconSource = (*OpenWeatherMapIconSource)(nil)

// NewOpenWeatherMapIconSource creates an icon source. An empty baseURL selects DefaultIconURL.
func NewOpenWeatherMapIconSource(baseURL string, timeout time.Duration) *OpenWeatherMapIconSource {
	if baseURL == "" {
		baseURL = DefaultIconURL
	}
	return &OpenWeatherMapIconSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the source name
func (s *OpenWeatherMapIconSource) Name() string {
	return "OpenWeatherMap icons"
}

// IconURL returns the URL of the icon for code
func (s *OpenWeatherMapIconSource) IconURL(code string) string {
	return fmt.Sprintf("%s/%s@2x.png", s.baseURL, url.PathEscape(code))
}

// FetchIcon downloads and decodes the icon for code
func (s *OpenWeatherMapIconSource) FetchIcon(ctx context.Context, code string) (models.Icon, error) {
	iconURL := s.IconURL(code)
	logger.GetLogger().Debugw("Requesting condition icon", "url", iconURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iconURL, nil)
	if err != nil {
		return models.Icon{}, fmt.Errorf("failed to create icon request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.Icon{}, fmt.Errorf("failed to fetch icon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Icon{}, fmt.Errorf("icon host returned non-200 status: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Icon{}, fmt.Errorf("failed to read icon body: %w", err)
	}

	return DecodeIcon(code, raw)
}

// DecodeIcon sniffs raw and decodes it as an image
func DecodeIcon(code string, raw []byte) (models.Icon, error) {
	detected := mimetype.Detect(raw)
	if !strings.HasPrefix(detected.String(), "image/") {
		return models.Icon{}, fmt.Errorf("icon %s is %s, not an image", code, detected.String())
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return models.Icon{}, fmt.Errorf("failed to decode icon %s: %w", code, err)
	}

	return models.Icon{
		Code:  code,
		MIME:  detected.String(),
		Image: img,
	}, nil
}
