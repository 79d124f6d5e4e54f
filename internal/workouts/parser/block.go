package parser

// Field is the 1-based positional slot of a '-' line inside a block.
type Field int

const (
	FieldName Field = iota + 1
	FieldSetsReps
	FieldWeight
	FieldDuration
	FieldCalories
)

// requiredFields is the number of slots every block must fill, calories are optional.
const requiredFields = int(FieldDuration)

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldSetsReps:
		return "setsReps"
	case FieldWeight:
		return "weight"
	case FieldDuration:
		return "duration"
	case FieldCalories:
		return "calories"
	default:
		return "unknown"
	}
}

// Block is one '#category' section with its '-' lines, as written by the user.
type Block struct {
	// Line is the 1-based line of the category header.
	Line     int
	Category string
	Name     string
	Sets     int
	Reps     int
	Weight   float64
	Duration float64
	// Calories is set only when the block carries an explicit kcal line.
	Calories *float64
}
