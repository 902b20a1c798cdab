package handlers

import (
	"errors"
	"fmt"

	"github.com/reusee/tairepl/replconfigs"
	"github.com/reusee/tairepl/sandbox"
)

func UndefinedName(max int) *Counting {
	return &Counting{
		Name: "undefined_name",
		Kinds: []error{
			sandbox.ErrNameResolution,
			sandbox.ErrTypeMismatch,
		},
		Max: max,
		Format: func(err error) string {
			if errors.Is(err, sandbox.ErrNameResolution) {
				return fmt.Sprintf("NameError: %v. Solve the task with the imported definitions only.", err)
			}
			return fmt.Sprintf("TypeError: %v.", err)
		},
	}
}

func Semantic(max int) *Counting {
	return &Counting{
		Name: "semantic",
		Kinds: []error{
			ErrSemanticHint,
		},
		Max: max,
		Format: func(err error) string {
			var hint *Hint
			if errors.As(err, &hint) {
				return hint.Message
			}
			return err.Error()
		},
		Counts: func(err error) bool {
			var hint *Hint
			return !errors.As(err, &hint) || hint.Critical
		},
	}
}

func Import(max int) *Counting {
	return &Counting{
		Name: "import",
		Kinds: []error{
			sandbox.ErrImportAttempt,
			sandbox.ErrForbiddenOperation,
		},
		Max: max,
		Format: func(error) string {
			return "ImportError: No imports possible. Try solving the task with only the provided functions, " +
				"and if this is not possible, tell the user that you cannot solve it."
		},
	}
}

func CollectionAccess(max int) *Counting {
	return &Counting{
		Name: "collection_access",
		Kinds: []error{
			sandbox.ErrCollectionAccess,
		},
		Max: max,
		Format: func(err error) string {
			return fmt.Sprintf("%v. Revise the code carefully to avoid this error.", err)
		},
	}
}

func Default() Chain {
	return Chain{
		UndefinedName(3),
		Semantic(4),
		Import(3),
		CollectionAccess(3),
	}
}

func FromSpecs(specs replconfigs.ErrorHandlerSpecs) (Chain, error) {
	if len(specs) == 0 {
		return Default(), nil
	}
	var chain Chain
	for _, spec := range specs {
		var handler *Counting
		switch spec.Type {
		case "undefined_name":
			handler = UndefinedName(3)
		case "semantic":
			handler = Semantic(4)
		case "import":
			handler = Import(3)
		case "collection_access":
			handler = CollectionAccess(3)
		default:
			return nil, fmt.Errorf("unknown error handler type: %q", spec.Type)
		}
		if spec.Max != nil {
			handler.Max = *spec.Max
		}
		chain = append(chain, handler)
	}
	return chain, nil
}
