package translator

import (
	"context"
	"fmt"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleService translates fragments through the Google Cloud Translation
// API. The client is built once per run; the pipeline issues one call per
// uncached fragment, so a per-call client would be rebuilt thousands of
// times on a large Damos file.
type GoogleService struct {
	client *translate.Client
}

// NewGoogleService creates the API client. credentialsFile may be empty to
// use ambient application-default credentials.
func NewGoogleService(ctx context.Context, credentialsFile string) (*GoogleService, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create translate client: %w", err)
	}
	return &GoogleService{client: client}, nil
}

func (s *GoogleService) Name() string {
	return "google"
}

func (s *GoogleService) Translate(ctx context.Context, text, targetLang string) (string, error) {
	tag, err := language.Parse(targetLang)
	if err != nil {
		return "", fmt.Errorf("invalid target language %q: %w", targetLang, err)
	}

	// Source options stay nil so the service auto-detects the source
	// language.
	translations, err := s.client.Translate(ctx, []string{text}, tag, nil)
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	if len(translations) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return translations[0].Text, nil
}

func (s *GoogleService) Close() error {
	return s.client.Close()
}
