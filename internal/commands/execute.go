package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Rename func(RenameArgs) (Result, error)
	Delete func(TargetArgs) (Result, error)
	Done   func(TargetArgs) (Result, error)
	Move   func(MoveArgs) (Result, error)
	Cheat  func(TargetArgs) (Result, error)
	Key    func(KeyArgs) (Result, error)
	Model  func(ModelArgs) (Result, error)
	Models func(ModelsArgs) (Result, error)
	XP     func(XPArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		return dispatch(cmd.Type, handlers.Add, cmd.Add)
	case TypeRename:
		return dispatch(cmd.Type, handlers.Rename, cmd.Rename)
	case TypeDelete:
		return dispatch(cmd.Type, handlers.Delete, cmd.Target)
	case TypeDone:
		return dispatch(cmd.Type, handlers.Done, cmd.Target)
	case TypeMove:
		return dispatch(cmd.Type, handlers.Move, cmd.Move)
	case TypeCheat:
		return dispatch(cmd.Type, handlers.Cheat, cmd.Target)
	case TypeKey:
		return dispatch(cmd.Type, handlers.Key, cmd.Key)
	case TypeModel:
		return dispatch(cmd.Type, handlers.Model, cmd.Model)
	case TypeModels:
		return dispatch(cmd.Type, handlers.Models, &ModelsArgs{})
	case TypeXP:
		return dispatch(cmd.Type, handlers.XP, cmd.XP)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func dispatch[A any](typ Type, handler func(A) (Result, error), args *A) (Result, error) {
	if handler == nil {
		return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", typ)}
	}
	if args == nil {
		return Result{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s arguments missing", typ)}
	}
	return handler(*args)
}
