package cmd

import "testing"

func TestRootCommandTree(t *testing.T) {
	want := map[string][]string{
		"serve":   nil,
		"migrate": {"up", "down", "version"},
	}

	for name, subs := range want {
		c, _, err := rootCmd.Find([]string{name})
		if err != nil || c.Name() != name {
			t.Fatalf("command %q not registered: %v", name, err)
		}
		for _, sub := range subs {
			sc, _, err := rootCmd.Find([]string{name, sub})
			if err != nil || sc.Name() != sub {
				t.Fatalf("command %q %q not registered: %v", name, sub, err)
			}
		}
	}
}

func TestMigrateDownStepsDefault(t *testing.T) {
	f := migrateDownCmd.Flags().Lookup("steps")
	if f == nil || f.DefValue != "1" {
		t.Fatalf("expected --steps flag defaulting to 1, got %+v", f)
	}
}
