package signature

import "testing"

func TestSplit(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantContent string
		wantSig     string
	}{
		{
			name:        "dash delimiter",
			text:        "Main content here.\n--\nJohn Doe\nACME Corp",
			wantContent: "Main content here.",
			wantSig:     "--\nJohn Doe\nACME Corp",
		},
		{
			name:        "dash space delimiter",
			text:        "Body.\n-- \nJane",
			wantContent: "Body.",
			wantSig:     "-- \nJane",
		},
		{
			name:        "best regards",
			text:        "See attached.\n\nBest regards,\nJohn",
			wantContent: "See attached.",
			wantSig:     "Best regards,\nJohn",
		},
		{
			name:        "kind regards",
			text:        "Thanks for the update.\n\nKind regards\nSam",
			wantContent: "Thanks for the update.",
			wantSig:     "Kind regards\nSam",
		},
		{
			name:        "regards comma",
			text:        "Done.\n\nRegards,\nPat",
			wantContent: "Done.",
			wantSig:     "Regards,\nPat",
		},
		{
			name: "dash block wins over later regards",
			text: "Content\n--\nsig with Best regards inside",
			// "--\n" is checked before "Best regards", so the split lands
			// on the dash block even though both are present.
			wantContent: "Content",
			wantSig:     "--\nsig with Best regards inside",
		},
		{
			name:        "no delimiter",
			text:        "Just a short note with nothing else.",
			wantContent: "Just a short note with nothing else.",
			wantSig:     "",
		},
		{
			name:        "trailing delimiter keeps the marker as signature",
			text:        "Content\n--\n",
			wantContent: "Content",
			wantSig:     "--",
		},
		{
			name:        "empty input",
			text:        "",
			wantContent: "",
			wantSig:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, sig := Split(tt.text)
			if content != tt.wantContent {
				t.Errorf("content = %q, want %q", content, tt.wantContent)
			}
			if sig != tt.wantSig {
				t.Errorf("sig = %q, want %q", sig, tt.wantSig)
			}
		})
	}
}
