package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/medassist/action"
	"github.com/tbxark/medassist/clinical"
	"github.com/tbxark/medassist/command"
	"github.com/tbxark/medassist/lifecycle"
	"github.com/tbxark/medassist/provider"
	"github.com/tbxark/medassist/types"
)

func encounterStore() *clinical.Store {
	c := clinical.Demo()
	c.ChiefComplaint = "Chest pain on exertion"
	return clinical.NewMemoryStore(clinical.WithInitial(func(context.Context) types.ClinicalContext { return c }))
}

func newTestFlow(t *testing.T, router *provider.Router) (*ActionFlow, *clinical.Store, *lifecycle.Machine) {
	t.Helper()
	store := encounterStore()
	machine := lifecycle.New(store, router)
	flow, err := NewActionFlow(machine, store, command.NewLocalParser(), WithWaitTimeout(2*time.Second))
	require.NoError(t, err)
	return flow, store, machine
}

func codingRouter(err error) *provider.Router {
	r := provider.NewRouter()
	r.Coding = provider.Func[action.CodingPayload, action.CodingResult](func(ctx context.Context, p action.CodingPayload) (*action.CodingResult, error) {
		if err != nil {
			return nil, err
		}
		return &action.CodingResult{ICDCodes: []string{"I10", "R07.9"}, CodingRationale: "Documented hypertension."}, nil
	})
	r.Claims = provider.SimulatedClaims{}
	return r
}

func invoke(t *testing.T, flow *ActionFlow, input string) *Response {
	t.Helper()
	resp, err := flow.Invoke(context.Background(), &Request{UserInput: input})
	require.NoError(t, err)
	return resp
}

func TestFlowDispatchRendersSections(t *testing.T) {
	flow, _, _ := newTestFlow(t, codingRouter(nil))
	resp := invoke(t, flow, "run coding")
	assert.Equal(t, lifecycle.PhaseSettled, resp.State.Phase)
	assert.Equal(t, "## AI Coding Assistance\n\n### ICD CODES\n- I10\n- R07.9\n\n### CODING RATIONALE\nDocumented hypertension.\n", resp.Message)

	resp = invoke(t, flow, "close")
	assert.Equal(t, lifecycle.PhaseIdle, resp.State.Phase)
}

func TestFlowDispatchFailure(t *testing.T) {
	flow, _, _ := newTestFlow(t, codingRouter(errors.New("timeout")))
	resp := invoke(t, flow, "coding")
	assert.Equal(t, "AI Coding Assistance failed. Please try again.", resp.Message)
	assert.False(t, resp.State.Open())
	assert.True(t, resp.State.Errored)
}

func TestFlowValidationAndSet(t *testing.T) {
	flow, store, _ := newTestFlow(t, codingRouter(nil))
	c := clinical.Demo()
	c.ChiefComplaint = ""
	require.NoError(t, store.Write(context.Background(), c))

	resp := invoke(t, flow, "claims")
	assert.Equal(t, "Chief complaint is required before running AI actions.", resp.Message)
	assert.Equal(t, lifecycle.PhaseIdle, resp.State.Phase)

	resp = invoke(t, flow, "set chiefComplaint Headache for two days")
	assert.Equal(t, "Updated /chiefComplaint.", resp.Message)
	got, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Headache for two days", got.ChiefComplaint)

	resp = invoke(t, flow, "claims")
	assert.Equal(t, lifecycle.PhaseSettled, resp.State.Phase)
	assert.Contains(t, resp.Message, "### CLAIMS ANALYSIS")
}

func TestFlowSetRejectsFixedField(t *testing.T) {
	flow, _, _ := newTestFlow(t, codingRouter(nil))
	resp := invoke(t, flow, "set patientDetails Jane")
	assert.Contains(t, resp.Message, "Could not update /patientDetails")
}

func TestFlowShowAndHelp(t *testing.T) {
	flow, _, _ := newTestFlow(t, codingRouter(nil))
	resp := invoke(t, flow, "show")
	assert.Contains(t, resp.Message, "chiefComplaint:")

	resp = invoke(t, flow, "help")
	assert.Contains(t, resp.Message, "Available commands")

	resp = invoke(t, flow, "good morning")
	assert.Contains(t, resp.Message, "did not understand")

	resp = invoke(t, flow, "quit")
	assert.True(t, resp.Quit)
}

func TestFlowBusy(t *testing.T) {
	release := make(chan struct{})
	r := provider.NewRouter()
	r.Advisory = provider.Func[action.AdvisoryPayload, action.AdvisoryResult](func(ctx context.Context, p action.AdvisoryPayload) (*action.AdvisoryResult, error) {
		<-release
		return &action.AdvisoryResult{Advisory: "ok"}, nil
	})
	store := encounterStore()
	machine := lifecycle.New(store, r)
	flow, err := NewActionFlow(machine, store, nil, WithWaitTimeout(10*time.Millisecond))
	require.NoError(t, err)

	resp := invoke(t, flow, "advisory")
	assert.Contains(t, resp.Message, "still running")
	assert.True(t, resp.State.Busy())

	resp = invoke(t, flow, "ehr")
	assert.Contains(t, resp.Message, "Another action is still running")

	resp = invoke(t, flow, "show")
	assert.Equal(t, "## AI Clinical Advisory\n\nWorking on it...\n", resp.Message)

	close(release)
	assert.Eventually(t, func() bool {
		return machine.State().Phase == lifecycle.PhaseSettled
	}, 2*time.Second, 5*time.Millisecond)
}

func TestRenderState(t *testing.T) {
	assert.Empty(t, RenderState(lifecycle.State{Phase: lifecycle.PhaseIdle}))
	out := RenderState(lifecycle.State{
		Phase: lifecycle.PhaseSettled,
		Title: "Generated EHR Draft",
		Sections: []types.Section{
			{Label: "SUBJECTIVE", Body: "Chest pain"},
			{Label: "PLAN", Body: ""},
		},
	})
	assert.Equal(t, "## Generated EHR Draft\n\n### SUBJECTIVE\nChest pain\n\n### PLAN\n", out)

	out = RenderState(lifecycle.State{
		Phase: lifecycle.PhaseSettled,
		Title: "AI Coding Assistance",
		Sections: []types.Section{
			{Label: "ICD CODES", Body: "I10", List: true},
			{Label: "CODING RATIONALE", Body: "Elevated readings\n- on two visits"},
		},
	})
	assert.Equal(t, "## AI Coding Assistance\n\n### ICD CODES\n- I10\n\n### CODING RATIONALE\nElevated readings\n- on two visits\n", out)
}

func TestAgentRun(t *testing.T) {
	flow, _, _ := newTestFlow(t, codingRouter(nil))
	a := NewAgent("MedAssist", "Runs clinical AI actions", flow)
	assert.Equal(t, "MedAssist", a.Name(context.Background()))

	iter := a.Run(context.Background(), &adk.AgentInput{
		Messages: []adk.Message{schema.UserMessage("hello"), schema.UserMessage("coding")},
	})
	var events []*adk.AgentEvent
	for {
		event, ok := iter.Next()
		if !ok {
			break
		}
		events = append(events, event)
	}
	require.Len(t, events, 1)
	require.NoError(t, events[0].Err)
	msg, err := events[0].Output.MessageOutput.GetMessage()
	require.NoError(t, err)
	assert.Contains(t, msg.Content, "### ICD CODES")
	assert.Nil(t, events[0].Action)
}

func TestAgentRunQuitExits(t *testing.T) {
	flow, _, _ := newTestFlow(t, codingRouter(nil))
	a := NewAgent("MedAssist", "", flow)
	iter := a.Run(context.Background(), &adk.AgentInput{Messages: []adk.Message{schema.UserMessage("exit")}})
	event, ok := iter.Next()
	require.True(t, ok)
	require.NotNil(t, event.Action)
	assert.True(t, event.Action.Exit)
}

func TestAgentRunNoMessages(t *testing.T) {
	flow, _, _ := newTestFlow(t, codingRouter(nil))
	iter := NewAgent("MedAssist", "", flow).Run(context.Background(), &adk.AgentInput{})
	event, ok := iter.Next()
	require.True(t, ok)
	assert.Error(t, event.Err)
}
