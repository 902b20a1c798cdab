package repls

import (
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/debugs"
	"github.com/reusee/tairepl/fgens"
	"github.com/reusee/tairepl/handlers"
	"github.com/reusee/tairepl/learns"
	"github.com/reusee/tairepl/llms"
	"github.com/reusee/tairepl/logs"
	"github.com/reusee/tairepl/namespaces"
	"github.com/reusee/tairepl/prompts"
	"github.com/reusee/tairepl/replconfigs"
	"github.com/reusee/tairepl/sandbox"
	"github.com/reusee/tairepl/transcripts"
)

type Module struct {
	dscope.Module
	Debugs      debugs.Module
	Fgens       fgens.Module
	Handlers    handlers.Module
	Learns      learns.Module
	LLMs        llms.Module
	Namespaces  namespaces.Module
	Prompts     prompts.Module
	ReplConfigs replconfigs.Module
	Sandbox     sandbox.Module
	Transcripts transcripts.Module
}

type NewSession func(name string, caps namespaces.Capabilities) (*Session, error)

func (Module) NewSession(
	getGenerator llms.GetDefaultGenerator,
	executor *sandbox.Executor,
	newNamespace namespaces.NewNamespace,
	newBuilder prompts.NewBuilder,
	newChain handlers.NewChain,
	newLearner learns.NewLearner,
	newFunctions fgens.NewGenerator,
	maxRounds replconfigs.MaxRounds,
	resetOnYield replconfigs.ResetOnYield,
	allowLearn replconfigs.AllowLearnWithoutRequest,
	logger logs.Logger,
	newSpan logs.NewSpan,
	printer *transcripts.Printer,
	tap debugs.Tap,
	tapOnFatal debugs.TapOnFatal,
) NewSession {
	return func(name string, caps namespaces.Capabilities) (*Session, error) {
		generator, err := getGenerator()
		if err != nil {
			return nil, err
		}
		builder, err := newBuilder()
		if err != nil {
			return nil, err
		}
		chain, err := newChain()
		if err != nil {
			return nil, err
		}
		learner, err := newLearner()
		if err != nil {
			return nil, err
		}
		namespace := newNamespace(caps)
		functions, err := newFunctions(executor, namespace)
		if err != nil {
			return nil, err
		}

		session := &Session{
			Name: name,
			LLM: llms.Retrying{
				Upstream: generator,
				Max:      3,
				Backoff:  time.Second,
			},
			Executor:                 executor,
			Namespace:                namespace,
			Builder:                  builder,
			Handlers:                 chain,
			Learner:                  learner,
			Functions:                functions,
			MaxRounds:                int(maxRounds),
			ResetOnYield:             bool(resetOnYield),
			AllowLearnWithoutRequest: bool(allowLearn),
			TriggerType:              "dialog",
			TriggerKey:               "text",
			Logger:                   logger,
			NewSpan:                  newSpan,
			Printer:                  printer,
		}
		if tapOnFatal {
			session.Tap = tap
		}
		if learner != nil {
			namespace.Predefine(learnFunction, session.learnBuiltin())
		}
		return session, nil
	}
}

type NewSubAgent func(name string, caps namespaces.Capabilities, meta namespaces.Meta) (*SubAgent, error)

func (Module) NewSubAgent(
	newSession NewSession,
) NewSubAgent {
	return func(name string, caps namespaces.Capabilities, meta namespaces.Meta) (*SubAgent, error) {
		session, err := newSession(name, caps)
		if err != nil {
			return nil, err
		}
		// nested calls must not keep state between invocations
		session.ResetOnYield = true
		return &SubAgent{
			Name:    name,
			Meta:    meta,
			Session: session,
		}, nil
	}
}
