// Package engage classifies facial emotion labels into coarse
// engagement categories.
//
// The mapping is a fixed lookup table: every known emotion maps to
// exactly one category, and the same label always yields the same
// category. Unknown labels are a data problem, not a classification
// problem - callers reject them at ingestion with Known.
package engage

// Emotion is a facial emotion label produced by the external
// expression classifier. The set matches the standard FER labels.
type Emotion string

const (
	EmotionAngry     Emotion = "angry"
	EmotionDisgusted Emotion = "disgusted"
	EmotionFearful   Emotion = "fearful"
	EmotionHappy     Emotion = "happy"
	EmotionNeutral   Emotion = "neutral"
	EmotionSad       Emotion = "sad"
	EmotionSurprised Emotion = "surprised"
)

// Category is the coarse engagement bucket derived from an emotion.
type Category string

const (
	Attentive  Category = "attentive"
	Distracted Category = "distracted"
)

// categories is the static emotion-to-engagement table.
// Calm and positive expressions read as attention; negative
// expressions read as disengagement.
var categories = map[Emotion]Category{
	EmotionHappy:     Attentive,
	EmotionNeutral:   Attentive,
	EmotionSurprised: Attentive,
	EmotionAngry:     Distracted,
	EmotionDisgusted: Distracted,
	EmotionFearful:   Distracted,
	EmotionSad:       Distracted,
}

// Known reports whether the label is part of the fixed emotion
// enumeration. Ingestion must drop detections with unknown labels.
func Known(e Emotion) bool {
	_, ok := categories[e]
	return ok
}

// Classify returns the engagement category for a known emotion label.
// It is pure and total over the known label set; behavior for labels
// that fail Known is undefined by contract (the empty category is
// returned).
func Classify(e Emotion) Category {
	return categories[e]
}

// Emotions returns the fixed emotion enumeration.
func Emotions() []Emotion {
	return []Emotion{
		EmotionAngry,
		EmotionDisgusted,
		EmotionFearful,
		EmotionHappy,
		EmotionNeutral,
		EmotionSad,
		EmotionSurprised,
	}
}
