package arena

// Action is one discrete per-tick command, shared by the player and the bot.
type Action int

const (
	ActionNoOp Action = iota
	ActionMoveForward
	ActionMoveBackward
	ActionRotateCW
	ActionRotateCCW
	ActionFire

	actionCount
)

// NumActions is the size of the discrete action space.
const NumActions = int(actionCount)

// Valid reports whether a is inside the action space. Out-of-range actions
// are rejected by Env.Step, never clamped.
func (a Action) Valid() bool {
	return a >= ActionNoOp && a < actionCount
}

func (a Action) String() string {
	switch a {
	case ActionNoOp:
		return "no_op"
	case ActionMoveForward:
		return "move_forward"
	case ActionMoveBackward:
		return "move_backward"
	case ActionRotateCW:
		return "rotate_cw"
	case ActionRotateCCW:
		return "rotate_ccw"
	case ActionFire:
		return "fire"
	default:
		return "invalid"
	}
}
