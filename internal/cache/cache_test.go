package cache

import "testing"

func TestJobListKey(t *testing.T) {
	k1 := JobListKey("engineer", "tech", "berlin", 20, 0)
	k2 := JobListKey("engineer", "tech", "berlin", 20, 0)
	if k1 != k2 {
		t.Error("same filter should produce the same key")
	}

	k3 := JobListKey("engineer", "tech", "berlin", 20, 20)
	if k1 == k3 {
		t.Error("different pages must not share a key")
	}

	k4 := JobListKey("designer", "tech", "berlin", 20, 0)
	if k1 == k4 {
		t.Error("different queries must not share a key")
	}
}
