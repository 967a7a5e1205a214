package comperr_test

import (
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/YPares/frp-arduino/build/comperr"
)

func TestErrorf(t *testing.T) {
	err := comperr.Errorf(comperr.TypeMismatch, "led", "expected %s", "bit")
	if got, want := err.Error(), "stream led: type mismatch: expected bit"; got != want {
		t.Errorf("got %q but want %q", got, want)
	}
	if err.Kind() != comperr.TypeMismatch || err.Stream() != "led" {
		t.Errorf("kind or stream lost: %+v", err)
	}
}

func TestIsKind(t *testing.T) {
	err := comperr.Errorf(comperr.CyclicGraph, "a", "dependency cycle")
	if !comperr.IsKind(err, comperr.CyclicGraph) {
		t.Errorf("kind not matched on the error itself")
	}
	if comperr.IsKind(err, comperr.TypeMismatch) {
		t.Errorf("wrong kind matched")
	}
	wrapped := errors.Wrap(err, "while scheduling")
	if !comperr.IsKind(wrapped, comperr.CyclicGraph) {
		t.Errorf("kind not matched through wrapping")
	}
	if comperr.IsKind(errors.New("plain"), comperr.CyclicGraph) {
		t.Errorf("matched an unrelated error")
	}
	if comperr.IsKind(nil, comperr.CyclicGraph) {
		t.Errorf("matched a nil error")
	}
}

func TestAppenderCollectsAll(t *testing.T) {
	errs := &comperr.Appender{}
	if !errs.Empty() || errs.ToError() != nil {
		t.Fatal("a fresh appender must be empty")
	}
	errs.Append(nil)
	if !errs.Empty() {
		t.Errorf("appending nil must keep the appender empty")
	}
	errs.Appendf(comperr.UnknownStream, "a", "input ghost is not declared")
	errs.Appendf(comperr.DuplicateInput, "b", "argument index 0 declared twice")
	err := errs.ToError()
	if err == nil {
		t.Fatal("two appended errors produce no combined error")
	}
	for _, want := range []string{"stream a", "stream b"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("combined error %q does not mention %q", err, want)
		}
	}
	if !comperr.IsKind(err, comperr.UnknownStream) || !comperr.IsKind(err, comperr.DuplicateInput) {
		t.Errorf("kinds not matched through the combined error")
	}
}
