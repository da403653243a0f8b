package blob

import (
	"context"
	"errors"
	"testing"
)

func TestMalformedRefIsNotFound(t *testing.T) {
	s := &GridFSStore{}
	for _, ref := range []string{"", "abc", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		if _, _, err := s.Open(context.Background(), ref); !errors.Is(err, ErrNotFound) {
			t.Errorf("Open(%q) err = %v, want ErrNotFound", ref, err)
		}
		if err := s.Delete(context.Background(), ref); !errors.Is(err, ErrNotFound) {
			t.Errorf("Delete(%q) err = %v, want ErrNotFound", ref, err)
		}
	}
}
