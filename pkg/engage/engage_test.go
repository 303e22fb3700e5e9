package engage

import "testing"

func TestClassify_Totality(t *testing.T) {
	for _, e := range Emotions() {
		cat := Classify(e)
		if cat != Attentive && cat != Distracted {
			t.Errorf("Classify(%q) = %q, want a fixed category", e, cat)
		}
	}
}

func TestClassify_Stable(t *testing.T) {
	for _, e := range Emotions() {
		first := Classify(e)
		for i := 0; i < 3; i++ {
			if got := Classify(e); got != first {
				t.Errorf("Classify(%q) changed between calls: %q then %q", e, first, got)
			}
		}
	}
}

func TestClassify_Mapping(t *testing.T) {
	tests := []struct {
		emotion Emotion
		want    Category
	}{
		{EmotionHappy, Attentive},
		{EmotionNeutral, Attentive},
		{EmotionSurprised, Attentive},
		{EmotionAngry, Distracted},
		{EmotionDisgusted, Distracted},
		{EmotionFearful, Distracted},
		{EmotionSad, Distracted},
	}

	for _, tc := range tests {
		if got := Classify(tc.emotion); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.emotion, got, tc.want)
		}
	}
}

func TestKnown(t *testing.T) {
	for _, e := range Emotions() {
		if !Known(e) {
			t.Errorf("Known(%q) = false, want true", e)
		}
	}

	for _, e := range []Emotion{"", "bored", "HAPPY", "confused"} {
		if Known(e) {
			t.Errorf("Known(%q) = true, want false", e)
		}
	}
}
