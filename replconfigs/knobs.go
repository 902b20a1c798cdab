package replconfigs

import (
	"strconv"

	"github.com/reusee/tairepl/cmds"
	"github.com/reusee/tairepl/configs"
	"github.com/reusee/tairepl/logs"
	"github.com/reusee/tairepl/vars"
)

type (
	MaxRounds                int
	MaxRecursionDepth        int
	MaxExecutionSteps        uint64
	TopK                     int
	QueryKeepLastN           int
	QueryHistoryDecay        float64
	ResetOnYield             bool
	AllowLearnWithoutRequest bool
	FunctionGeneration       bool
	ExampleGlobs             []string
	LearnedExamplesFile      string
	BasePromptFile           string
	LoopPreventionPromptFile string
)

var (
	maxRoundsFlag         = cmds.Var[int]("-max-rounds")
	maxRecursionDepthFlag = cmds.Var[int]("-max-recursion-depth")
	maxExecutionStepsFlag = cmds.Var[int]("-max-steps")
	topKFlag              = cmds.Var[int]("-top-k")
	resetOnYieldFlag      = cmds.Var[string]("-reset-on-yield")
	functionGenFlag       = cmds.Switch("-fgen")
	exampleGlobsFlag      = cmds.Collect[string]("-examples")
	learnedExamplesFlag   = cmds.Var[string]("-learned")
	basePromptFlag        = cmds.Var[string]("-prompt")
)

func (Module) MaxRounds(
	loader configs.Loader,
) MaxRounds {
	return vars.FirstNonZero(
		MaxRounds(*maxRoundsFlag),
		configs.First[MaxRounds](loader, "max_rounds"),
		100,
	)
}

func (Module) MaxRecursionDepth(
	loader configs.Loader,
) MaxRecursionDepth {
	return vars.FirstNonZero(
		MaxRecursionDepth(*maxRecursionDepthFlag),
		configs.First[MaxRecursionDepth](loader, "max_recursion_depth"),
		10,
	)
}

// zero means unbounded
func (Module) MaxExecutionSteps(
	loader configs.Loader,
) MaxExecutionSteps {
	return vars.FirstNonZero(
		MaxExecutionSteps(max(*maxExecutionStepsFlag, 0)),
		configs.First[MaxExecutionSteps](loader, "max_execution_steps"),
	)
}

func (Module) TopK(
	loader configs.Loader,
) TopK {
	return vars.FirstNonZero(
		TopK(*topKFlag),
		configs.First[TopK](loader, "top_k"),
		2,
	)
}

func (Module) QueryKeepLastN(
	loader configs.Loader,
) QueryKeepLastN {
	return vars.FirstNonZero(
		configs.First[QueryKeepLastN](loader, "query_keep_last_n"),
		3,
	)
}

func (Module) QueryHistoryDecay(
	loader configs.Loader,
) QueryHistoryDecay {
	return vars.FirstNonZero(
		configs.First[QueryHistoryDecay](loader, "query_history_decay"),
		0.6,
	)
}

// ResetOnYield defaults to true. The flag takes true or false and overrides the config either way.
func (Module) ResetOnYield(
	loader configs.Loader,
	logger logs.Logger,
) ResetOnYield {
	if *resetOnYieldFlag != "" {
		v, err := strconv.ParseBool(*resetOnYieldFlag)
		if err == nil {
			return ResetOnYield(v)
		}
		logger.Warn("bad reset-on-yield flag", "value", *resetOnYieldFlag, "error", err)
	}
	if v := configs.First[*bool](loader, "reset_on_yield"); v != nil {
		return ResetOnYield(*v)
	}
	return true
}

func (Module) AllowLearnWithoutRequest(
	loader configs.Loader,
) AllowLearnWithoutRequest {
	return AllowLearnWithoutRequest(configs.First[bool](loader, "allow_learn_without_request"))
}

func (Module) FunctionGeneration(
	loader configs.Loader,
) FunctionGeneration {
	return FunctionGeneration(*functionGenFlag || configs.First[bool](loader, "function_generation"))
}

func (Module) ExampleGlobs(
	loader configs.Loader,
) (ret ExampleGlobs) {
	ret = append(ret, *exampleGlobsFlag...)
	for globs := range configs.All[[]string](loader, "example_globs") {
		ret = append(ret, globs...)
	}
	return
}

func (Module) LearnedExamplesFile(
	loader configs.Loader,
) LearnedExamplesFile {
	return vars.FirstNonZero(
		LearnedExamplesFile(*learnedExamplesFlag),
		configs.First[LearnedExamplesFile](loader, "learned_examples_file"),
	)
}

func (Module) BasePromptFile(
	loader configs.Loader,
) BasePromptFile {
	return vars.FirstNonZero(
		BasePromptFile(*basePromptFlag),
		configs.First[BasePromptFile](loader, "base_prompt_file"),
	)
}

func (Module) LoopPreventionPromptFile(
	loader configs.Loader,
) LoopPreventionPromptFile {
	return configs.First[LoopPreventionPromptFile](loader, "loop_prevention_prompt_file")
}

type HandlerSpec struct {
	Type string `json:"type"`
	Max  *int   `json:"max"`
}

type ErrorHandlerSpecs []HandlerSpec

func (Module) ErrorHandlerSpecs(
	loader configs.Loader,
	logger logs.Logger,
) (ret ErrorHandlerSpecs) {
	for specs := range configs.All[[]HandlerSpec](loader, "error_handlers") {
		ret = append(ret, specs...)
	}
	if len(ret) > 0 {
		logger.Info("error handlers", "specs", len(ret))
	}
	return
}
