// Copyright © 2018 The ELPS authors

package kurt

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Conditions carried by exceptions.  Use errors.Is to test an error returned
// from the interpreter for one of them.
var (
	ErrNameNotFound      = errors.New("name not found")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrTooManyArguments  = errors.New("too many arguments")
	ErrNotADict          = errors.New("not a dict")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrUnknownBuiltin    = errors.New("unknown builtin")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrUserThrow         = errors.New("exception")
	ErrExpectationFailed = errors.New("expectation failed")
)

// Exception is a language level exception.  Value is the exception Dict
// visible to catch blocks, with keys message and stack.
type Exception struct {
	Condition error
	Value     Expr
}

// Error implements the error interface.
func (e *Exception) Error() string {
	return e.Message()
}

// Unwrap returns the exception's condition.
func (e *Exception) Unwrap() error {
	return e.Condition
}

// Message returns the exception message.
func (e *Exception) Message() string {
	d := e.Value.Dict()
	if d == nil {
		return e.Value.String()
	}
	msg, ok := d.Map["message"]
	if !ok {
		return ""
	}
	return msg.String()
}

// StackFrame is one entry of an exception's stack.
type StackFrame struct {
	File string
	Name string
	Line int
	Col  int
}

func (f StackFrame) String() string {
	name := f.Name
	if name == "" {
		name = "anonymous"
	}
	return fmt.Sprintf("%s:%d:%d: %s", f.File, f.Line, f.Col, name)
}

// Stack returns the frames recorded when the exception was thrown, innermost
// first.
func (e *Exception) Stack() []StackFrame {
	d := e.Value.Dict()
	if d == nil {
		return nil
	}
	stack := d.Map["stack"].List()
	if stack == nil {
		return nil
	}
	frames := make([]StackFrame, 0, len(stack.Exprs))
	for _, fexpr := range stack.Exprs {
		fd := fexpr.Dict()
		if fd == nil {
			continue
		}
		frame := StackFrame{
			File: fd.Map["file"].Str,
			Name: fd.Map["name"].Str,
		}
		if pos := fd.Map["pos"].List(); pos != nil && len(pos.Exprs) == 2 {
			frame.Line = int(pos.Exprs[0].Num)
			frame.Col = int(pos.Exprs[1].Num)
		}
		frames = append(frames, frame)
	}
	return frames
}

// WriteTrace writes the exception message and its stack to w.
func (e *Exception) WriteTrace(w io.Writer) (int, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Exception: %s\n", e.Message())
	for i, frame := range e.Stack() {
		fmt.Fprintf(&b, "%3d: %s\n", i, frame)
	}
	return io.WriteString(w, b.String())
}

// Throw creates an exception carrying message with the call stack leading to
// env.  The returned error should be returned up the call chain.
func (k *Interpreter) Throw(env Expr, message string) error {
	return k.throw(env, ErrUserThrow, message)
}

// Throwf is like Throw but records condition as the exception's condition and
// formats its message.
func (k *Interpreter) Throwf(env Expr, condition error, format string, v ...interface{}) error {
	return k.throw(env, condition, fmt.Sprintf(format, v...))
}

// raise converts err into an exception thrown from env unless it already is
// one.
func (k *Interpreter) raise(env Expr, err error) error {
	if err == nil {
		return nil
	}
	var exc *Exception
	if errors.As(err, &exc) {
		return err
	}
	condition := errors.Unwrap(err)
	if condition == nil {
		condition = err
	}
	return k.throw(env, condition, err.Error())
}

func (k *Interpreter) throw(env Expr, condition error, message string) error {
	stack := k.callStack(env)
	value := NewDict(nil, map[string]Expr{
		"message": String(message),
		"stack":   NewList(nil, stack),
	})
	k.logger().WithField("message", message).Debug("exception thrown")
	return &Exception{Condition: condition, Value: value}
}

// callStack reconstructs the stack by walking the caller chain from env.
// Every frame that has a source location contributes an entry.
func (k *Interpreter) callStack(env Expr) []Expr {
	var stack []Expr
	cur := env
	for i := 0; cur.Kind == KDict; i++ {
		d := cur.Dict()
		caller, isFrame := d.Map[CallerKey]
		if !isFrame || i > maxChainLength {
			break
		}
		if d.Source != nil {
			stack = append(stack, NewDict(nil, map[string]Expr{
				"file": String(d.Source.File),
				"name": String(d.Name),
				"pos":  NewList(nil, []Expr{Num(float64(d.Source.Line)), Num(float64(d.Source.Col))}),
			}))
		}
		cur = caller
	}
	return stack
}
