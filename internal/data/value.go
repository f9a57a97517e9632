package data

// Value — числовой параметр скилла, зависящий от уровня.
type Value struct {
	Amount   int32
	PerLevel bool // true: Amount * level (Multiply), false: Amount (Fixed)
}

// Fixed returns a level-independent value.
func Fixed(v int32) Value { return Value{Amount: v} }

// Multiply returns a value scaled linearly by skill level.
func Multiply(v int32) Value { return Value{Amount: v, PerLevel: true} }

// Get resolves the value for the given skill level.
// Levels below 1 are treated as 1.
func (v Value) Get(level int32) int32 {
	if !v.PerLevel {
		return v.Amount
	}
	if level < 1 {
		level = 1
	}
	return v.Amount * level
}

// IsZero reports whether the value is unset.
func (v Value) IsZero() bool { return v.Amount == 0 }
