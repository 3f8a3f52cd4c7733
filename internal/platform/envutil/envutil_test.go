package envutil

import (
	"testing"
	"time"
)

func TestDurationAcceptsSecondsAndGoSyntax(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_DUR", "45")
	if got := Duration("ENVUTIL_TEST_DUR", time.Minute, nil); got != 45*time.Second {
		t.Fatalf("seconds: want=%s got=%s", 45*time.Second, got)
	}
	t.Setenv("ENVUTIL_TEST_DUR", "10m")
	if got := Duration("ENVUTIL_TEST_DUR", time.Minute, nil); got != 10*time.Minute {
		t.Fatalf("go syntax: want=%s got=%s", 10*time.Minute, got)
	}
	t.Setenv("ENVUTIL_TEST_DUR", "soon")
	if got := Duration("ENVUTIL_TEST_DUR", time.Minute, nil); got != time.Minute {
		t.Fatalf("fallback: want=%s got=%s", time.Minute, got)
	}
}

func TestBoolIntAndList(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_BOOL", "off")
	if Bool("ENVUTIL_TEST_BOOL", true, nil) {
		t.Fatalf("bool: want=false got=true")
	}
	t.Setenv("ENVUTIL_TEST_INT", "x")
	if got := Int("ENVUTIL_TEST_INT", 7, nil); got != 7 {
		t.Fatalf("int fallback: want=7 got=%d", got)
	}
	t.Setenv("ENVUTIL_TEST_LIST", " a, ,b ")
	got := List("ENVUTIL_TEST_LIST", nil, nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("list: want=[a b] got=%v", got)
	}
	if got := String("ENVUTIL_TEST_MISSING", "def", nil); got != "def" {
		t.Fatalf("string default: want=def got=%q", got)
	}
}
