package sheet

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	apperrors "github.com/louisbranch/tenfacts/internal/platform/errors"
)

// AttemptsPerQuestion bounds the rejection sampling loop per requested question.
const AttemptsPerQuestion = 200

// Sizes of the fact space: every valid fact with operands and result in
// [0, MaxValue], split by whether a term is zero.
const (
	ZeroFreeFacts    = 90
	ZeroFacts        = 42
	MaxDistinctFacts = ZeroFreeFacts + ZeroFacts
)

// Source is the uniform integer draw used by Generate. *rand.Rand satisfies it.
type Source interface {
	// Intn returns a uniform value in [0, n).
	Intn(n int) int
}

// NewRNG returns the seeded source used for one page.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// QuestionSet is the ordered questions of one page.
type QuestionSet struct {
	Questions []Question
}

// Len returns the number of questions.
func (s QuestionSet) Len() int {
	return len(s.Questions)
}

// ZeroCount returns how many questions involve a zero term.
func (s QuestionSet) ZeroCount() int {
	n := 0
	for _, q := range s.Questions {
		if q.Fact.HasZero() {
			n++
		}
	}
	return n
}

// Keys returns the canonical keys in question order.
func (s QuestionSet) Keys() []string {
	keys := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		keys[i] = q.Fact.Key()
	}
	return keys
}

// ZeroLimit is the most zero-involving facts a set of count may hold,
// keeping them strictly under ten percent.
func ZeroLimit(count int) int {
	return max(0, (count-1)/10)
}

// Generate draws count unique facts from rng.
//
// Each attempt draws the operator, operand A, operand B and the blank
// position in that order, so rejected attempts still advance rng and the
// result is a pure function of the seed.
func Generate(rng Source, count int) (QuestionSet, error) {
	if count <= 0 {
		return QuestionSet{}, apperrors.WithMetadata(apperrors.CodeInvalidInput,
			"count must be positive", map[string]string{"count": strconv.Itoa(count)})
	}
	if rng == nil {
		return QuestionSet{}, apperrors.New(apperrors.CodeInvalidInput, "random source is required")
	}

	zeroLimit := ZeroLimit(count)
	maxAttempts := math.MaxInt
	if count <= math.MaxInt/AttemptsPerQuestion {
		maxAttempts = count * AttemptsPerQuestion
	}
	// Once reachable facts are accepted every later draw is rejected, so
	// stopping there leaves the result unchanged.
	reachable := ZeroFreeFacts + min(zeroLimit, ZeroFacts)
	capacity := min(count, MaxDistinctFacts)
	questions := make([]Question, 0, capacity)
	seen := make(map[string]struct{}, capacity)
	zeroCount := 0

	for attempts := 0; len(questions) < count && len(questions) < reachable && attempts < maxAttempts; attempts++ {
		fact := drawFact(rng)
		key := fact.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		hasZero := fact.HasZero()
		if hasZero && zeroCount >= zeroLimit {
			continue
		}
		seen[key] = struct{}{}
		if hasZero {
			zeroCount++
		}
		questions = append(questions, Question{Number: len(questions) + 1, Fact: fact})
	}

	if len(questions) < count {
		return QuestionSet{}, apperrors.WithMetadata(apperrors.CodeGenerationExhausted,
			fmt.Sprintf("cannot satisfy constraints: generated %d of %d unique questions; reduce count or relax rules", len(questions), count),
			map[string]string{
				"count":      strconv.Itoa(count),
				"generated":  strconv.Itoa(len(questions)),
				"zero_limit": strconv.Itoa(zeroLimit),
			})
	}
	return QuestionSet{Questions: questions}, nil
}

func drawFact(rng Source) Fact {
	var f Fact
	f.Op = Operator(rng.Intn(2))
	f.A = rng.Intn(MaxValue + 1)
	if f.Op == OpAdd {
		f.B = rng.Intn(MaxValue - f.A + 1)
		f.C = f.A + f.B
	} else {
		f.B = rng.Intn(f.A + 1)
		f.C = f.A - f.B
	}
	f.Blank = Term(rng.Intn(3))
	return f
}
