package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFromUnwrapsWrappedAPIErrors(t *testing.T) {
	base := NotFound("no_active_session", errors.New("no active session")).WithMessage("No active session found")
	got := From(fmt.Errorf("end session: %w", base))
	if got.Status != http.StatusNotFound || got.Code != "no_active_session" {
		t.Fatalf("want=404/no_active_session got=%d/%s", got.Status, got.Code)
	}

	if got.PublicMessage() != "No active session found" || got.Error() != "no active session" {
		t.Fatalf("messages: got public=%q err=%q", got.PublicMessage(), got.Error())
	}
	orig := NotFound("x", errors.New("y"))
	if orig.WithMessage("z"); orig.Message != "" {
		t.Fatalf("WithMessage mutated receiver: got=%q", orig.Message)
	}

	plain := From(errors.New("boom"))
	if plain.Status != http.StatusInternalServerError {
		t.Fatalf("plain: want=500 got=%d", plain.Status)
	}
	if From(nil) != nil {
		t.Fatalf("nil: want=nil")
	}
}
