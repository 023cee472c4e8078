// Package verse fetches the decorative daily verse shown on the splash
// screen. A network failure is never surfaced; the offline list takes over.
package verse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const defaultAPIURL = "https://www.abibliadigital.com.br/api/verses/nvi/random"

var offlineVerses = []string{
	"Tudo posso naquele que me fortalece. – Filipenses 4:13",
	"O Senhor é meu pastor; nada me faltará. – Salmo 23:1",
	"Entrega o teu caminho ao Senhor; confia nele, e ele o fará. – Salmo 37:5",
}

// Service fetches one verse per day and caches it. There is no retry; a
// failed fetch falls back to the offline list for the rest of the day.
type Service struct {
	client *http.Client
	url    string
	now    func() time.Time

	mu        sync.Mutex
	cachedDay string
	cached    string
}

// New returns a Service using the public API with a short timeout.
func New() *Service {
	return &Service{
		client: &http.Client{Timeout: 5 * time.Second},
		url:    defaultAPIURL,
		now:    time.Now,
	}
}

type apiVerse struct {
	Text string `json:"text"`
	Book struct {
		Name string `json:"name"`
	} `json:"book"`
	Chapter int `json:"chapter"`
	Number  int `json:"number"`
}

// Daily returns the verse for today, fetching it on the first call of the
// day.
func (s *Service) Daily(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now().Format("2006-01-02")
	if s.cachedDay == today && s.cached != "" {
		return s.cached
	}

	text, err := s.fetch(ctx)
	if err != nil || text == "" {
		text = s.offlineVerse()
	}

	s.cachedDay = today
	s.cached = text
	return text
}

func (s *Service) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("verse api returned status %d", resp.StatusCode)
	}

	var v apiVerse
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return "", err
	}
	if v.Text == "" {
		return "", fmt.Errorf("verse api returned empty text")
	}

	return fmt.Sprintf("%q — %s %d:%d", v.Text, v.Book.Name, v.Chapter, v.Number), nil
}

// offlineVerse picks deterministically by day of year, so the fallback is
// stable within a day.
func (s *Service) offlineVerse() string {
	return offlineVerses[s.now().YearDay()%len(offlineVerses)]
}
