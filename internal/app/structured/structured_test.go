package structured_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/ruhaan-agent/internal/adapters/llm"
	"github.com/PabloGalante/ruhaan-agent/internal/app/structured"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

var testBank = structured.FixedBank{OpenerText: "Listen up.", CloserText: "No excuses."}

const truncatedMidString = `{"psychological": {"analysis": "You fear change.", "key_points": ["Write your fears down today.", "Talk to a mentor this week."]}, "philosophical": {"perspective": "Growth needs risk.", "key_points": ["Decide what matters most to you."]}, "autobiographical": {"story": "Many felt this before.", "key_points": ["Start small before a big leap."]}, "logical": {"framework": "Weigh the options.", "key_points": ["step one", "step tw`

func structuredLLM(reply string, err error) *llm.MockLLM {
	return llm.NewScriptedLLM(func(req domain.CompletionRequest) (string, error) {
		return reply, err
	})
}

func newBuilder(client domain.ChatClient, tr domain.Translator) *structured.Builder {
	return structured.NewBuilder(client, tr, testBank, "", time.Second)
}

func TestBuildReturnsStructuredResult(t *testing.T) {
	mock := llm.NewMockLLM()
	b := newBuilder(mock, nil)

	res := b.Build(context.Background(), "Should I leave my job?", nil, domain.LangEnglish)

	sr, ok := res.(domain.StructuredResult)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, domain.IntentStructured, sr.Intent())
	assert.Equal(t, domain.LangEnglish, sr.LanguageCode)

	for _, name := range domain.Sections {
		sec := sr.Response.Section(name)
		assert.NotEmpty(t, sec.Lead, name)
		assert.NotEmpty(t, sec.KeyPoints, name)
		assert.LessOrEqual(t, len(sec.KeyPoints), domain.MaxKeyPoints, name)
	}
	assert.Equal(t, sr.Response.Logical.KeyPoints, sr.NextSteps)
	assert.Contains(t, sr.Summary, sr.Response.Psychological.Lead)
	assert.Contains(t, sr.Summary, sr.Response.Logical.Lead)
	assert.True(t, strings.HasPrefix(sr.VoiceMessage, "Listen up. 1. "), sr.VoiceMessage)
	assert.True(t, strings.HasSuffix(sr.VoiceMessage, "No excuses."), sr.VoiceMessage)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.PurposeStructured, calls[0].Purpose)
	assert.Equal(t, 1500, calls[0].MaxTokens)
	assert.Contains(t, calls[0].Messages[0].Content, "English")
}

func TestBuildRecoversTruncatedJSON(t *testing.T) {
	b := newBuilder(structuredLLM(truncatedMidString, nil), nil)

	res := b.Build(context.Background(), "help me decide", nil, domain.LangEnglish)

	sr, ok := res.(domain.StructuredResult)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, []string{"step one", "step tw"}, sr.Response.Logical.KeyPoints)
}

func TestBuildDegradesWhenRepairFails(t *testing.T) {
	raw := `{"psychological": {"analysis": "You fear change.", "key_points": ["a point"]}, "philosophical": {"perspective": "x", "key_points": ["y"]}, "logical": {"framew`
	b := newBuilder(structuredLLM(raw, nil), nil)

	res := b.Build(context.Background(), "help me decide", nil, domain.LangEnglish)

	cc, ok := res.(domain.ChitChatResult)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, structured.Apology(domain.LangEnglish), cc.Message)
}

func TestBuildSalvagesFirstLongStringFromPartialAnswer(t *testing.T) {
	raw := "```json\n" + `{"psychological": {"analysis": "short", "key_points": ["You are carrying more than you think."]}, "philosophical": {"perspective": "Growth needs risk.", "key_points": ["x"]}}` + "\n```"
	b := newBuilder(structuredLLM(raw, nil), nil)

	res := b.Build(context.Background(), "help", nil, domain.LangEnglish)

	cc, ok := res.(domain.ChitChatResult)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, "You are carrying more than you think.", cc.Message)
}

func TestBuildModelErrorIsApology(t *testing.T) {
	b := newBuilder(structuredLLM("", errors.New("timeout")), nil)

	res := b.Build(context.Background(), "help", nil, domain.LangHindi)

	cc, ok := res.(domain.ChitChatResult)
	require.True(t, ok)
	assert.Equal(t, structured.Apology(domain.LangHindi), cc.Message)
	assert.Equal(t, domain.LangHindi, cc.LanguageCode)
}

func TestBuildTranslatesForHindi(t *testing.T) {
	mock := llm.NewScriptedLLM(func(req domain.CompletionRequest) (string, error) {
		if req.Purpose == domain.PurposeTranslate {
			return "अनुवादित पाठ", nil
		}
		return llm.MockStructuredJSON, nil
	})
	b := newBuilder(mock, llm.NewTranslator(mock, "", time.Second))

	res := b.Build(context.Background(), "मुझे क्या करना चाहिए", nil, domain.LangHindi)

	sr, ok := res.(domain.StructuredResult)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, "अनुवादित पाठ", sr.Response.Philosophical.Lead)
	assert.Equal(t, "अनुवादित पाठ", sr.VoiceMessage)
	for _, p := range sr.NextSteps {
		assert.Equal(t, "अनुवादित पाठ", p)
	}
	assert.Positive(t, mock.CallCount(domain.PurposeTranslate))
}

func TestBuildKeepsOriginalWhenTranslationFails(t *testing.T) {
	mock := llm.NewScriptedLLM(func(req domain.CompletionRequest) (string, error) {
		if req.Purpose == domain.PurposeTranslate {
			return "", errors.New("translation down")
		}
		return llm.MockStructuredJSON, nil
	})
	b := newBuilder(mock, llm.NewTranslator(mock, "", time.Second))

	res := b.Build(context.Background(), "मुझे क्या करना चाहिए", nil, domain.LangHindi)

	sr, ok := res.(domain.StructuredResult)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, "Compare the options with a simple risk and reward table.", sr.Response.Logical.Lead)
	assert.Equal(t, domain.LangHindi, sr.LanguageCode)
}

func TestParseStripsFencesAndQuotes(t *testing.T) {
	for _, raw := range []string{
		"```json\n" + llm.MockStructuredJSON + "\n```",
		`"` + llm.MockStructuredJSON + `"`,
		"Sure! Here you go: " + llm.MockStructuredJSON + " Hope it helps.",
	} {
		res, ok := structured.Parse(raw)
		require.True(t, ok)
		assert.Equal(t, "clean", res.Step)
		_, err := structured.Validate(res.Doc)
		assert.NoError(t, err)
	}
}

func TestParseRepairSteps(t *testing.T) {
	res, ok := structured.Parse(truncatedMidString)
	require.True(t, ok)
	assert.Equal(t, "brace_completion", res.Step)

	_, ok = structured.Parse("I cannot answer that.")
	assert.False(t, ok)

	// missing section names never reach the repair steps
	_, ok = structured.Parse(`{"answer": "trunc`)
	assert.False(t, ok)
}

func TestValidateRejectsPartialAnswers(t *testing.T) {
	res, ok := structured.Parse(llm.MockStructuredJSON)
	require.True(t, ok)

	delete(res.Doc, "autobiographical")
	res.Doc["logical"].(map[string]any)["key_points"] = []any{}

	_, err := structured.Validate(res.Doc)
	var verr *structured.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []domain.SectionName{domain.SectionAutobiographical, domain.SectionLogical}, verr.Sections)
}

func TestTruncateLead(t *testing.T) {
	eighty := strings.Repeat("a", 80)
	assert.Equal(t, eighty, structured.TruncateLead(eighty))

	exact := strings.Repeat("a", 120)
	assert.Equal(t, exact, structured.TruncateLead(exact))

	withPeriod := strings.Repeat("a", 130) + "." + strings.Repeat("b", 369)
	require.Len(t, withPeriod, 500)
	assert.Len(t, structured.TruncateLead(withPeriod), 131)

	noPunct := strings.Repeat("a", 500)
	assert.Len(t, structured.TruncateLead(noPunct), 200)

	earlyPeriod := strings.Repeat("a", 50) + "." + strings.Repeat("b", 99)
	assert.Len(t, structured.TruncateLead(earlyPeriod), 120)

	shortNoPunct := strings.Repeat("a", 150)
	assert.Len(t, structured.TruncateLead(shortNoPunct), 120)

	hindi := strings.Repeat("क", 150)
	assert.Equal(t, 120, len([]rune(structured.TruncateLead(hindi))))
}

func TestBuildVoiceMessageCapsSteps(t *testing.T) {
	points := []string{
		"Write down your three biggest fears tonight.",
		"Call one friend who changed careers.",
		"Start a side project this weekend.",
		"Set a deadline for your decision.",
		"Stop checking job boards every hour.",
	}
	msg := structured.BuildVoiceMessage(points, testBank)

	assert.Contains(t, msg, "1. Write down")
	assert.Contains(t, msg, "3. Start a side project")
	assert.NotContains(t, msg, "4.")
	assert.True(t, strings.HasPrefix(msg, "Listen up."))
	assert.True(t, strings.HasSuffix(msg, "No excuses."))
}

func TestBuildVoiceMessageStripsHedges(t *testing.T) {
	points := []string{
		"You should try to write your goals every morning.",
		"Maybe the best move is to call your sister today.",
	}
	msg := structured.BuildVoiceMessage(points, testBank)

	assert.Equal(t, "Listen up. 1. Write your goals every morning. 2. Do this: the best move is to call your sister today. No excuses.", msg)
}

func TestBuildVoiceMessageFallsBackToFirstSentences(t *testing.T) {
	points := []string{
		"Fear is normal. It shows you care.",
		"Life is long. There is time.",
		"Nobody has it figured out. Really.",
		"Patience matters. Always.",
	}
	msg := structured.BuildVoiceMessage(points, testBank)

	assert.Equal(t, "Listen up. 1. Fear is normal. 2. Life is long. 3. Nobody has it figured out. No excuses.", msg)
}

func TestBuildVoiceMessageNeverEmpty(t *testing.T) {
	assert.Equal(t, structured.FallbackVoiceMessage, structured.BuildVoiceMessage(nil, testBank))
	assert.Equal(t, structured.FallbackVoiceMessage, structured.BuildVoiceMessage([]string{"", "  "}, nil))
	assert.NotEmpty(t, structured.BuildVoiceMessage([]string{"ok"}, structured.NewRandomBank()))
}

func TestLoadPhraseBank(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "phrases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("openers:\n  - Hey.\nclosers:\n  - Go now.\n"), 0o600))

	bank, err := structured.LoadPhraseBank(path)
	require.NoError(t, err)
	assert.Equal(t, "Hey.", bank.Opener())
	assert.Equal(t, "Go now.", bank.Closer())

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("openers: []\n"), 0o600))
	_, err = structured.LoadPhraseBank(empty)
	assert.Error(t, err)
}
