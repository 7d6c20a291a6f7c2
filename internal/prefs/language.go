package prefs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ariefcatur/go-course-market/internal/apperr"
	"github.com/ariefcatur/go-course-market/internal/storage"
	"golang.org/x/text/language"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

type Lang struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Dir  string `json:"dir"`
}

var (
	English = Lang{Code: "en", Name: "English", Dir: "ltr"}
	Arabic  = Lang{Code: "ar", Name: "العربية", Dir: "rtl"}

	Supported = []Lang{English, Arabic}
)

// ParseLang resolves a BCP 47 tag to a supported language by its base, so
// "ar-EG" selects Arabic.
func ParseLang(code string) (Lang, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return Lang{}, apperr.E(apperr.Invalid, fmt.Sprintf("language %q", code), ErrUnsupportedLanguage)
	}
	base, _ := tag.Base()
	for _, l := range Supported {
		if l.Code == base.String() {
			return l, nil
		}
	}
	return Lang{}, apperr.E(apperr.Invalid, fmt.Sprintf("language %q", code), ErrUnsupportedLanguage)
}

// Language is the selected interface language, English until set.
type Language struct {
	s storage.Storage

	mu  sync.Mutex
	cur Lang
}

// NewLanguage rehydrates the stored code; anything unreadable falls back
// to English.
func NewLanguage(ctx context.Context, s storage.Storage) (*Language, error) {
	l := &Language{s: s, cur: English}
	raw, err := s.Get(ctx, storage.SlotLang)
	if errors.Is(err, storage.ErrNotFound) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("language: %w", err)
	}
	if lang, err := ParseLang(raw); err == nil {
		l.cur = lang
	}
	return l, nil
}

func (l *Language) Get() Lang {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cur
}

func (l *Language) Set(ctx context.Context, code string) (Lang, error) {
	lang, err := ParseLang(code)
	if err != nil {
		return Lang{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.s.Set(ctx, storage.SlotLang, lang.Code); err != nil {
		return Lang{}, fmt.Errorf("write %s: %w", storage.SlotLang, err)
	}
	l.cur = lang
	return lang, nil
}
