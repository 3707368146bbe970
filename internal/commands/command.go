package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeRename Type = "rename"
	TypeDelete Type = "delete"
	TypeDone   Type = "done"
	TypeMove   Type = "move"
	TypeCheat  Type = "cheat"
	TypeKey    Type = "key"
	TypeModel  Type = "model"
	TypeModels Type = "models"
	TypeXP     Type = "xp"
)

var aliases = map[string]Type{
	"new":    TypeAdd,
	"edit":   TypeRename,
	"rm":     TypeDelete,
	"del":    TypeDelete,
	"toggle": TypeDone,
	"check":  TypeDone,
	"mv":     TypeMove,
}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Target names a habit: "selected" (or "."), a 1-based position, or a habit name.
type Target string

const Selected Target = "selected"

// Position returns the 1-based index a numeric target refers to.
func (t Target) Position() (int, bool) {
	n, err := strconv.Atoi(string(t))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

type AddArgs struct {
	Name string
}

type RenameArgs struct {
	Target Target
	Name   string
}

type TargetArgs struct {
	Target Target
}

type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
	MoveTo   MoveDirection = "to"
)

type MoveArgs struct {
	Target    Target
	Direction MoveDirection
	// Position is the 1-based destination when Direction is MoveTo.
	Position int
}

type KeyArgs struct {
	Key   string
	Clear bool
}

type ModelArgs struct {
	ID string
}

type ModelsArgs struct{}

type XPArgs struct {
	Amount int
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Rename *RenameArgs
	Target *TargetArgs
	Move   *MoveArgs
	Key    *KeyArgs
	Model  *ModelArgs
	XP     *XPArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts, err := fields(raw)
	if err != nil {
		return Command{}, err
	}
	head := strings.ToLower(parts[0])
	args := parts[1:]
	typ := Type(head)
	if alias, ok := aliases[head]; ok {
		typ = alias
	}

	switch typ {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeRename:
		return parseRename(input, args)
	case TypeDelete, TypeDone, TypeCheat:
		return parseTarget(input, typ, args)
	case TypeMove:
		return parseMove(input, args)
	case TypeKey:
		return parseKey(input, args)
	case TypeModel:
		if len(args) != 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "model requires a model id"}
		}
		return Command{Type: TypeModel, Raw: input, Model: &ModelArgs{ID: strings.TrimPrefix(args[0], "models/")}}, nil
	case TypeModels:
		return Command{Type: TypeModels, Raw: input}, nil
	case TypeXP:
		return parseXP(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a habit name"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Name: name}}, nil
}

func parseRename(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "rename requires a target and a new name"}
	}
	name := strings.TrimSpace(strings.Join(args[1:], " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "rename requires a new name"}
	}
	return Command{Type: TypeRename, Raw: raw, Rename: &RenameArgs{Target: normalizeTarget(args[0]), Name: name}}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	target := Selected
	switch len(args) {
	case 0:
	case 1:
		target = normalizeTarget(args[0])
	default:
		target = Target(strings.Join(args, " "))
	}
	return Command{Type: typ, Raw: raw, Target: &TargetArgs{Target: target}}, nil
}

func parseMove(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "move requires up, down or a position"}
	}
	target := Selected
	dest := args[0]
	if len(args) >= 2 {
		target = normalizeTarget(args[0])
		dest = args[len(args)-1]
	}

	move := MoveArgs{Target: target}
	switch strings.ToLower(dest) {
	case "up", "k":
		move.Direction = MoveUp
	case "down", "j":
		move.Direction = MoveDown
	default:
		pos, err := strconv.Atoi(dest)
		if err != nil || pos < 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid move destination: %s", dest)}
		}
		move.Direction = MoveTo
		move.Position = pos
	}
	return Command{Type: TypeMove, Raw: raw, Move: &move}, nil
}

func parseKey(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "key requires an api key or \"clear\""}
	}
	if strings.EqualFold(args[0], "clear") {
		return Command{Type: TypeKey, Raw: raw, Key: &KeyArgs{Clear: true}}, nil
	}
	return Command{Type: TypeKey, Raw: raw, Key: &KeyArgs{Key: args[0]}}, nil
}

func parseXP(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "xp requires a signed amount"}
	}
	amount, err := strconv.Atoi(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid xp amount: %s", args[0])}
	}
	return Command{Type: TypeXP, Raw: raw, XP: &XPArgs{Amount: amount}}, nil
}

func normalizeTarget(arg string) Target {
	switch strings.ToLower(arg) {
	case "", ".", "selected", "this":
		return Selected
	}
	return Target(arg)
}

// fields splits on whitespace, keeping double-quoted runs together.
func fields(s string) ([]string, error) {
	var out []string
	var cur strings.Builder
	inQuote, have := false, false
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			have = true
		case !inQuote && (r == ' ' || r == '\t'):
			if have {
				out = append(out, cur.String())
				cur.Reset()
				have = false
			}
		default:
			cur.WriteRune(r)
			have = true
		}
	}
	if inQuote {
		return nil, &CommandError{Code: ErrCodeInvalidArgument, Message: "unterminated quote"}
	}
	if have {
		out = append(out, cur.String())
	}
	if len(out) == 0 || out[0] == "" {
		return nil, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	return out, nil
}
