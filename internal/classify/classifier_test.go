package classify

import (
	"testing"

	"github.com/nao1215/idscan/internal/model"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	c := NewDefault()

	testCases := []struct {
		name     string
		text     string
		expected model.DocumentType
	}{
		{
			name:     "aadhaar front",
			text:     "GOVERNMENT OF INDIA\nRAHUL KUMAR\nDOB: 15/08/1990\nMale\n1234 5678 9012",
			expected: model.DocumentAadhaar,
		},
		{
			name:     "aadhaar by authority name",
			text:     "Unique Identification Authority of India\nAddress: 12 MG Road",
			expected: model.DocumentAadhaar,
		},
		{
			name:     "aadhaar number alone",
			text:     "1234-5678-9012",
			expected: model.DocumentAadhaar,
		},
		{
			name:     "pan card",
			text:     "INCOME TAX DEPARTMENT\nRAHUL KUMAR SHARMA\nABCDE1234F\nFather's Name: SURESH KUMAR SHARMA",
			expected: model.DocumentPAN,
		},
		{
			name:     "pan by title",
			text:     "Permanent Account Number Card\nABCPE1234F",
			expected: model.DocumentPAN,
		},
		{
			name:     "generic contact text",
			text:     "Call me on 9876543210\nor write to test@example.com",
			expected: model.DocumentUnknown,
		},
		{
			name:     "empty",
			text:     "",
			expected: model.DocumentUnknown,
		},
		{
			name:     "weak evidence stays unknown",
			text:     "Government of India\nMale",
			expected: model.DocumentUnknown,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := c.Classify(tc.text); got != tc.expected {
				t.Errorf("Classify() = %s, expected %s (scores %+v)", got, tc.expected, c.Score(tc.text))
			}
		})
	}
}

func TestClassifyNoKeywords(t *testing.T) {
	t.Parallel()

	c := NewDefault()
	texts := []string{
		"hello world",
		"The quick brown fox jumps over the lazy dog",
		"Invoice 42\nTotal 1,250.00",
		"lorem ipsum dolor sit amet",
		"12345",
	}
	for _, text := range texts {
		if got := c.Classify(text); got != model.DocumentUnknown {
			t.Errorf("Classify(%q) = %s, expected unknown", text, got)
		}
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	c := NewDefault()

	t.Run("case insensitive keywords", func(t *testing.T) {
		t.Parallel()
		upper := c.Score("UIDAI")
		lower := c.Score("uidai")
		if upper != lower || upper.Aadhaar == 0 {
			t.Errorf("expected equal non-zero scores, got %+v and %+v", upper, lower)
		}
	})

	t.Run("pattern bonuses", func(t *testing.T) {
		t.Parallel()
		s := c.Score("1234 5678 9012")
		if s.Aadhaar != DefaultAadhaarPatternBonus || s.PAN != 0 {
			t.Errorf("unexpected scores %+v", s)
		}
		s = c.Score("abcpe1234f")
		if s.PAN != DefaultPANPatternBonus || s.Aadhaar != 0 {
			t.Errorf("unexpected scores %+v", s)
		}
	})
}

func TestDecide(t *testing.T) {
	t.Parallel()

	c := New(Rules{AadhaarThreshold: 5, PANThreshold: 6})

	testCases := []struct {
		scores   Scores
		expected model.DocumentType
	}{
		{Scores{Aadhaar: 5, PAN: 0}, model.DocumentAadhaar},
		{Scores{Aadhaar: 4, PAN: 0}, model.DocumentUnknown},
		{Scores{Aadhaar: 0, PAN: 6}, model.DocumentPAN},
		{Scores{Aadhaar: 0, PAN: 5}, model.DocumentUnknown},
		{Scores{Aadhaar: 9, PAN: 9}, model.DocumentUnknown},
		{Scores{Aadhaar: 9, PAN: 10}, model.DocumentPAN},
		{Scores{Aadhaar: 11, PAN: 10}, model.DocumentAadhaar},
	}

	for _, tc := range testCases {
		if got := c.Decide(tc.scores); got != tc.expected {
			t.Errorf("Decide(%+v) = %s, expected %s", tc.scores, got, tc.expected)
		}
	}
}

func TestCustomRules(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	rules.AadhaarKeywords["aadhaar card"] = 10
	c := New(rules)

	// Mutating the caller's table after New must not change the classifier.
	rules.AadhaarKeywords["lorem"] = 50

	if got := c.Classify("lorem ipsum"); got != model.DocumentUnknown {
		t.Errorf("expected classifier to own its rules, got %s", got)
	}
	if got := c.Rules().AadhaarKeywords["aadhaar card"]; got != 10 {
		t.Errorf("expected custom weight 10, got %d", got)
	}
}
