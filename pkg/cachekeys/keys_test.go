package cachekeys

import "testing"

func TestListKey(t *testing.T) {
	if got := ListKey("tasks"); got != "tasks:list" {
		t.Errorf("ListKey(tasks) = %q", got)
	}
	if got := ListKey("newsletters"); got != "newsletters:list" {
		t.Errorf("ListKey(newsletters) = %q", got)
	}
}

func TestResendCooldownKeyNormalizesAddress(t *testing.T) {
	want := "resend:ada@example.com"
	for _, input := range []string{"ada@example.com", " Ada@Example.COM ", "ADA@EXAMPLE.COM"} {
		if got := ResendCooldownKey(input); got != want {
			t.Errorf("ResendCooldownKey(%q) = %q, want %q", input, got, want)
		}
	}
}
