package engine

// Rung is one step of a Ladder: Value applies from MinLevel upward.
type Rung[T any] struct {
	MinLevel int
	Value    T
}

// Ladder is a level-indexed step function. Rungs may be listed in any order.
type Ladder[T any] []Rung[T]

// Lookup returns the value of the highest rung at or below level, or def if none qualifies.
func Lookup[T any](level int, ladder Ladder[T], def T) T {
	out := def
	best := -1
	for _, r := range ladder {
		if r.MinLevel <= level && r.MinLevel > best {
			best = r.MinLevel
			out = r.Value
		}
	}
	return out
}

type Avatar struct {
	Attitude string
	File     string
}

const DefaultAvatarPath = "characters/Seraphina/default.png"

var Titles = Ladder[string]{
	{0, "Habit Dabbler"},
	{1, "Novice Habit Starter"},
	{3, "Apprentice of Routine"},
	{5, "Adept of Discipline"},
	{7, "Virtuoso of Consistency"},
	{10, "Master of Habits"},
	{15, "Grandmaster of Self-Improvement"},
	{20, "Habit Legend"},
	{30, "Habit Demi-God"},
	{50, "Legendary Hero of Habits"},
}

var Attitudes = Ladder[string]{
	{0, "rude, angry, hostile and unimpressed"},
	{3, "rude, angry, hostile, but with glimmers of begrudging acknowledgment"},
	{5, "slightly less hostile, perhaps a bit sarcastic but intrigued"},
	{7, "neutral but curious, occasionally showing grudging respect"},
	{10, "noticeably impressed and offering compliments, a little flirty"},
	{15, "genuinely encouraging and warm, somewhat flirty"},
	{20, "very impressed, playful and openly admiring"},
	{30, "deeply proud of the user and fiercely loyal"},
	{40, "radiating unconditional pride and devotion, celebrating every small win"},
}

var Avatars = Ladder[Avatar]{
	{0, Avatar{"hostile", "hostile_0.png"}},
	{3, Avatar{"less_hostile", "hostile_1.png"}},
	{5, Avatar{"intrigued_sarcastic", "neutral_0.png"}},
	{7, Avatar{"grudging_respect", "neutral_1.png"}},
	{10, Avatar{"impressed_flirty", "positive_0.png"}},
	{15, Avatar{"warm_encouraging", "positive_1.png"}},
	{20, Avatar{"admiring_flirty", "positive_2.png"}},
	{30, Avatar{"loving_proud", "loving_0.png"}},
	{40, Avatar{"super_loving_proud", "loving_1.png"}},
}

func Title(level int) string {
	return Lookup(level, Titles, Titles[0].Value)
}

func Attitude(level int) string {
	return Lookup(level, Attitudes, Attitudes[0].Value)
}

func AvatarFor(level int) Avatar {
	return Lookup(level, Avatars, Avatar{Attitude: "hostile", File: DefaultAvatarPath})
}
