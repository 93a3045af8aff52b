package gate

// Outcome is what one (target element, source action row) pair contributes.
type Outcome int

const (
	None Outcome = iota
	StandBy
	Converted
)

func (o Outcome) String() string {
	switch o {
	case StandBy:
		return "stand-by"
	case Converted:
		return "converted"
	default:
		return "none"
	}
}

// Inputs are the facts a single pair is decided on.
type Inputs struct {
	IsDefault bool // matched relation is the action's default state
	IsFinal   bool // matched relation is a final state
	Override  bool // self-comparison mode
	// Blocked is set when an allow-list is configured and the action is
	// not on it.
	Blocked      bool
	StateMatches bool // the row's current state is the relation's state
}

// decisionTable has one row per combination of Inputs.
//
// In-progress relations (neither default nor final) only convert in
// override mode; a mismatching state holds the element back. Default or
// final relations are judged on IsFinal normally and on IsDefault in
// override mode; when that flag is set a matching state converts and a
// mismatch holds back.
var decisionTable = map[Inputs]Outcome{
	// in progress
	{false, false, false, false, false}: StandBy,
	{false, false, false, false, true}:  None,
	{false, false, true, false, false}:  StandBy,
	{false, false, true, false, true}:   Converted,
	// default only
	{true, false, false, false, false}: None,
	{true, false, false, false, true}:  None,
	{true, false, true, false, false}:  StandBy,
	{true, false, true, false, true}:   Converted,
	// final only
	{false, true, false, false, false}: StandBy,
	{false, true, false, false, true}:  Converted,
	{false, true, true, false, false}:  None,
	{false, true, true, false, true}:   None,
	// default and final
	{true, true, false, false, false}: StandBy,
	{true, true, false, false, true}:  Converted,
	{true, true, true, false, false}:  StandBy,
	{true, true, true, false, true}:   Converted,

	// action not on the configured allow-list
	{false, false, false, true, false}: None,
	{false, false, false, true, true}:  None,
	{false, false, true, true, false}:  None,
	{false, false, true, true, true}:   None,
	{true, false, false, true, false}:  None,
	{true, false, false, true, true}:   None,
	{true, false, true, true, false}:   None,
	{true, false, true, true, true}:    None,
	{false, true, false, true, false}:  None,
	{false, true, false, true, true}:   None,
	{false, true, true, true, false}:   None,
	{false, true, true, true, true}:    None,
	{true, true, false, true, false}:   None,
	{true, true, false, true, true}:    None,
	{true, true, true, true, false}:    None,
	{true, true, true, true, true}:     None,
}

// Decide looks up the outcome of one pair.
func Decide(in Inputs) Outcome {
	return decisionTable[in]
}
