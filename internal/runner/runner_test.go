package runner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mspec/internal/domain"
)

type line struct {
	text     string
	category Category
}

type recordingListener struct {
	events   []string
	lines    []line
	finished []domain.TestResult
}

func (l *recordingListener) WriteLine(text string, category Category) {
	l.events = append(l.events, "line:"+text)
	l.lines = append(l.lines, line{text: text, category: category})
}

func (l *recordingListener) TestFinished(result domain.TestResult) {
	l.events = append(l.events, "finished:"+result.Name)
	l.finished = append(l.finished, result)
}

func (l *recordingListener) interactions() int {
	return len(l.lines) + len(l.finished)
}

type countingContext struct {
	log       *[]string
	name      string
	before    int
	after     int
	beforeErr error
	afterErr  error
}

func (c *countingContext) BeforeAll() error {
	c.before++
	if c.log != nil {
		*c.log = append(*c.log, "before:"+c.name)
	}
	return c.beforeErr
}

func (c *countingContext) AfterAll() error {
	c.after++
	if c.log != nil {
		*c.log = append(*c.log, "after:"+c.name)
	}
	return c.afterErr
}

type fakeVerifier struct {
	log     *[]string
	results map[string]domain.VerificationResult
	errs    map[string]error
	calls   int
}

func (v *fakeVerifier) Verify(desc *domain.Description, spec domain.Specification) (domain.VerificationResult, error) {
	v.calls++
	if v.log != nil {
		*v.log = append(*v.log, "verify:"+spec.Name)
	}
	if err, ok := v.errs[spec.Name]; ok {
		return domain.VerificationResult{}, err
	}
	if res, ok := v.results[spec.Name]; ok {
		return res, nil
	}
	return domain.VerificationResult{Passed: true}, nil
}

type fakeFormatter struct{ passed bool }

func (f fakeFormatter) FormatResult(spec domain.Specification) string {
	if f.passed {
		return "  » " + spec.Name
	}
	return "  » " + spec.Name + " (FAIL)"
}

type fakeFormatters struct{}

func (fakeFormatters) FormatterFor(result domain.VerificationResult) ResultFormatter {
	return fakeFormatter{passed: result.Passed}
}

type fakeExplorer struct {
	all        []*domain.Description
	byNS       map[string][]*domain.Description
	byType     map[string]*domain.Description
	byField    map[string]*domain.Description
	err        error
	typeLookup int
}

func (e *fakeExplorer) FindDescriptionsIn(*domain.Assembly) ([]*domain.Description, error) {
	return e.all, e.err
}

func (e *fakeExplorer) FindDescriptionsInNamespace(_ *domain.Assembly, ns string) ([]*domain.Description, error) {
	return e.byNS[ns], e.err
}

func (e *fakeExplorer) FindDescriptionForType(_ *domain.Assembly, typeName string) (*domain.Description, error) {
	e.typeLookup++
	return e.byType[typeName], e.err
}

func (e *fakeExplorer) FindDescriptionForField(_ *domain.Assembly, typeName, field string) (*domain.Description, error) {
	return e.byField[typeName+"::"+field], e.err
}

func newDescription(name string, ctx domain.Context, specs ...domain.Specification) *domain.Description {
	for i := range specs {
		specs[i].Context = name
	}
	return &domain.Description{Name: name, Type: name, Specifications: specs, Context: ctx}
}

func spec(name string) domain.Specification {
	return domain.Specification{Name: name}
}

func when(name, clause string) domain.Specification {
	return domain.Specification{Name: name, WhenClause: clause}
}

func newRunner(v Verifier, opts ...Option) *SpecificationRunner {
	return New(&fakeExplorer{}, v, fakeFormatters{}, opts...)
}

func TestRunDescriptions_EmptyInput(t *testing.T) {
	l := &recordingListener{}
	state, err := newRunner(&fakeVerifier{}).RunDescriptions(l, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.RunStateNoTests, state)
	assert.Zero(t, l.interactions())
}

func TestRunDescriptions_SkipsEmptyDescriptions(t *testing.T) {
	ctx := &countingContext{}
	l := &recordingListener{}
	v := &fakeVerifier{}

	state, err := newRunner(v).RunDescriptions(l, []*domain.Description{newDescription("Empty", ctx)})

	require.NoError(t, err)
	assert.Equal(t, domain.RunStateNoTests, state)
	assert.Zero(t, ctx.before)
	assert.Zero(t, ctx.after)
	assert.Zero(t, l.interactions())
	assert.Zero(t, v.calls)
}

func TestRunDescriptions_AllPassing(t *testing.T) {
	ctx := &countingContext{}
	l := &recordingListener{}
	desc := newDescription("Cart", ctx, spec("a"), spec("b"), spec("c"))

	state, err := newRunner(&fakeVerifier{}).RunDescriptions(l, []*domain.Description{desc})

	require.NoError(t, err)
	assert.Equal(t, domain.RunStateSuccess, state)
	assert.Equal(t, 1, ctx.before)
	assert.Equal(t, 1, ctx.after)
	require.Len(t, l.finished, 3)
	for _, r := range l.finished {
		assert.Equal(t, domain.TestStatePassed, r.State)
		assert.Empty(t, r.StackTrace)
	}
}

func TestRunDescriptions_EventOrder(t *testing.T) {
	var log []string
	ctx := &countingContext{log: &log, name: "Cart"}
	v := &fakeVerifier{log: &log}
	l := &recordingListener{}
	desc := newDescription("Cart", ctx, spec("a"), spec("b"))

	_, err := newRunner(v).RunDescriptions(l, []*domain.Description{desc})
	require.NoError(t, err)

	assert.Equal(t, []string{"before:Cart", "verify:a", "verify:b", "after:Cart"}, log)
	assert.Equal(t, []string{
		"line:Cart",
		"line:  » a",
		"line:  » b",
		"line:",
		"finished:a",
		"finished:b",
	}, l.events)
	for _, ln := range l.lines {
		assert.Equal(t, CategoryOutput, ln.category)
	}
}

func TestRunDescriptions_FailureCarriesStackTraceOnlyWithError(t *testing.T) {
	v := &fakeVerifier{results: map[string]domain.VerificationResult{
		"with_detail":    {Passed: false, Err: errors.New("expected 1, got 2")},
		"without_detail": {Passed: false},
	}}
	l := &recordingListener{}
	desc := newDescription("Cart", nil, spec("ok"), spec("with_detail"), spec("without_detail"))

	state, err := newRunner(v).RunDescriptions(l, []*domain.Description{desc})

	require.NoError(t, err)
	assert.Equal(t, domain.RunStateFailure, state)
	require.Len(t, l.finished, 3)
	assert.Equal(t, domain.TestStatePassed, l.finished[0].State)
	assert.Equal(t, domain.TestStateFailed, l.finished[1].State)
	assert.Contains(t, l.finished[1].StackTrace, "expected 1, got 2")
	assert.Equal(t, domain.TestStateFailed, l.finished[2].State)
	assert.Empty(t, l.finished[2].StackTrace)
}

func TestRunDescriptions_WhenClauseGrouping(t *testing.T) {
	l := &recordingListener{}
	desc := newDescription("Cart", nil,
		spec("none"),
		when("a1", "A"),
		when("a2", "A"),
		when("b1", "B"),
	)

	_, err := newRunner(&fakeVerifier{}).RunDescriptions(l, []*domain.Description{desc})
	require.NoError(t, err)

	var headers []string
	for _, ln := range l.lines {
		if ln.text == "\n  When A" || ln.text == "\n  When B" {
			headers = append(headers, ln.text)
		}
	}
	assert.Equal(t, []string{"\n  When A", "\n  When B"}, headers)
	assert.Len(t, l.finished, 4)
}

func TestRunDescriptions_WhenTrackerResetsPerDescription(t *testing.T) {
	l := &recordingListener{}
	d1 := newDescription("D1", nil, when("x", "A"))
	d2 := newDescription("D2", nil, when("y", "A"))

	_, err := newRunner(&fakeVerifier{}).RunDescriptions(l, []*domain.Description{d1, d2})
	require.NoError(t, err)

	count := 0
	for _, ln := range l.lines {
		if ln.text == "\n  When A" {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestRunDescriptions_TwoDescriptionsScenario(t *testing.T) {
	failure := errors.New("boom")
	v := &fakeVerifier{results: map[string]domain.VerificationResult{
		"d2_case": {Passed: false, Err: failure},
	}}
	l := &recordingListener{}
	d1 := newDescription("D1", nil, spec("d1_a"), spec("d1_b"))
	d2 := newDescription("D2", nil, spec("d2_case"))

	state, err := newRunner(v).RunDescriptions(l, []*domain.Description{d1, d2})

	require.NoError(t, err)
	assert.Equal(t, domain.RunStateFailure, state)
	require.Len(t, l.finished, 3)
	assert.Equal(t, "d1_a", l.finished[0].Name)
	assert.Equal(t, domain.TestStatePassed, l.finished[0].State)
	assert.Equal(t, domain.TestStatePassed, l.finished[1].State)
	assert.Equal(t, "d2_case", l.finished[2].Name)
	assert.Equal(t, domain.TestStateFailed, l.finished[2].State)
	assert.Contains(t, l.finished[2].StackTrace, "boom")
	assert.Equal(t, "D2", l.finished[2].Context)
}

func TestRunDescriptions_Idempotent(t *testing.T) {
	v := &fakeVerifier{results: map[string]domain.VerificationResult{
		"b": {Passed: false, Err: errors.New("nope")},
	}}
	descs := []*domain.Description{
		newDescription("D1", nil, spec("a"), when("b", "X")),
		newDescription("D2", nil),
		newDescription("D3", nil, spec("c")),
	}
	r := newRunner(v)

	first := &recordingListener{}
	s1, err := r.RunDescriptions(first, descs)
	require.NoError(t, err)
	second := &recordingListener{}
	s2, err := r.RunDescriptions(second, descs)
	require.NoError(t, err)

	assert.Equal(t, s1, s2)
	assert.Equal(t, first.finished, second.finished)
	assert.Equal(t, first.events, second.events)
}

func TestRunDescriptions_BeforeAllError(t *testing.T) {
	hookErr := errors.New("database unavailable")
	ctx := &countingContext{beforeErr: hookErr}
	v := &fakeVerifier{}
	l := &recordingListener{}

	state, err := newRunner(v).RunDescriptions(l, []*domain.Description{newDescription("D", ctx, spec("a"))})

	require.ErrorIs(t, err, hookErr)
	assert.Equal(t, domain.RunStateFailure, state)
	assert.Zero(t, v.calls)
	assert.Zero(t, ctx.after)
	assert.Empty(t, l.finished)
}

func TestRunDescriptions_AfterAllError(t *testing.T) {
	hookErr := errors.New("cleanup failed")
	ctx := &countingContext{afterErr: hookErr}
	l := &recordingListener{}
	descs := []*domain.Description{
		newDescription("D1", ctx, spec("a")),
		newDescription("D2", nil, spec("b")),
	}

	_, err := newRunner(&fakeVerifier{}).RunDescriptions(l, descs)

	require.ErrorIs(t, err, hookErr)
	assert.Empty(t, l.finished)
	assert.NotContains(t, l.events, "line:D2")
}

func TestRunDescriptions_VerifierErrorStillRunsAfterAll(t *testing.T) {
	verifyErr := errors.New("shell missing")
	ctx := &countingContext{}
	v := &fakeVerifier{errs: map[string]error{"b": verifyErr}}
	l := &recordingListener{}

	state, err := newRunner(v).RunDescriptions(l, []*domain.Description{newDescription("D", ctx, spec("a"), spec("b"), spec("c"))})

	require.ErrorIs(t, err, verifyErr)
	assert.Equal(t, domain.RunStateFailure, state)
	assert.Equal(t, 1, ctx.after)
	assert.Equal(t, 2, v.calls)
	assert.Empty(t, l.finished)
}

func TestRunDescriptions_VerifierAndCleanupErrorsAreJoined(t *testing.T) {
	verifyErr := errors.New("shell missing")
	cleanupErr := errors.New("cleanup failed")
	ctx := &countingContext{afterErr: cleanupErr}
	v := &fakeVerifier{errs: map[string]error{"a": verifyErr}}

	_, err := newRunner(v).RunDescriptions(&recordingListener{}, []*domain.Description{newDescription("D", ctx, spec("a"))})

	require.ErrorIs(t, err, verifyErr)
	require.ErrorIs(t, err, cleanupErr)
}

func TestRunDescriptions_PartialReport(t *testing.T) {
	verifyErr := errors.New("shell missing")
	v := &fakeVerifier{errs: map[string]error{"c": verifyErr}}
	l := &recordingListener{}
	descs := []*domain.Description{
		newDescription("D1", nil, spec("a")),
		newDescription("D2", nil, spec("b"), spec("c")),
	}

	_, err := newRunner(v, WithPartialReport(true)).RunDescriptions(l, descs)

	require.ErrorIs(t, err, verifyErr)
	require.Len(t, l.finished, 2)
	assert.Equal(t, "a", l.finished[0].Name)
	assert.Equal(t, "b", l.finished[1].Name)
}

func TestRunAssembly(t *testing.T) {
	e := &fakeExplorer{all: []*domain.Description{newDescription("D", nil, spec("a"))}}
	l := &recordingListener{}

	state, err := New(e, &fakeVerifier{}, fakeFormatters{}).RunAssembly(l, &domain.Assembly{Name: "Shop"})

	require.NoError(t, err)
	assert.Equal(t, domain.RunStateSuccess, state)
	assert.Len(t, l.finished, 1)
}

func TestRunAssembly_ExplorerError(t *testing.T) {
	explorerErr := errors.New("bad manifest")
	e := &fakeExplorer{err: explorerErr}

	_, err := New(e, &fakeVerifier{}, fakeFormatters{}).RunAssembly(&recordingListener{}, &domain.Assembly{Name: "Shop"})

	require.ErrorIs(t, err, explorerErr)
}

func TestRunNamespace(t *testing.T) {
	e := &fakeExplorer{byNS: map[string][]*domain.Description{
		"Shop.Cart": {newDescription("D", nil, spec("a"), spec("b"))},
	}}
	r := New(e, &fakeVerifier{}, fakeFormatters{})

	l := &recordingListener{}
	state, err := r.RunNamespace(l, &domain.Assembly{}, "Shop.Cart")
	require.NoError(t, err)
	assert.Equal(t, domain.RunStateSuccess, state)
	assert.Len(t, l.finished, 2)

	l = &recordingListener{}
	state, err = r.RunNamespace(l, &domain.Assembly{}, "Shop.Orders")
	require.NoError(t, err)
	assert.Equal(t, domain.RunStateNoTests, state)
	assert.Zero(t, l.interactions())
}

func TestRunMember(t *testing.T) {
	cart := newDescription("Shop.Cart", nil, spec("a"), spec("b"))
	e := &fakeExplorer{
		byType:  map[string]*domain.Description{"Shop.Cart": cart},
		byField: map[string]*domain.Description{"Shop.Cart::b": cart},
	}
	r := New(e, &fakeVerifier{}, fakeFormatters{})

	tests := []struct {
		name     string
		member   domain.Member
		expected domain.RunState
		finished int
	}{
		{
			name:     "type member",
			member:   domain.Member{Kind: domain.MemberType, Type: "Shop.Cart"},
			expected: domain.RunStateSuccess,
			finished: 2,
		},
		{
			name:     "field member runs owning description",
			member:   domain.Member{Kind: domain.MemberField, Type: "Shop.Cart", Field: "b"},
			expected: domain.RunStateSuccess,
			finished: 2,
		},
		{
			name:     "unresolvable type",
			member:   domain.Member{Kind: domain.MemberType, Type: "Shop.Orders"},
			expected: domain.RunStateNoTests,
		},
		{
			name:     "unresolvable field",
			member:   domain.Member{Kind: domain.MemberField, Type: "Shop.Cart", Field: "missing"},
			expected: domain.RunStateNoTests,
		},
		{
			name:     "unknown member kind",
			member:   domain.Member{Kind: domain.MemberUnknown, Type: "Shop.Cart"},
			expected: domain.RunStateNoTests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &recordingListener{}
			state, err := r.RunMember(l, &domain.Assembly{}, tt.member)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, state)
			assert.Len(t, l.finished, tt.finished)
			if tt.finished == 0 {
				assert.Zero(t, l.interactions())
			}
		})
	}
}

func TestRunMember_UnknownKindSkipsExplorer(t *testing.T) {
	e := &fakeExplorer{}
	_, err := New(e, &fakeVerifier{}, fakeFormatters{}).RunMember(&recordingListener{}, &domain.Assembly{}, domain.Member{})
	require.NoError(t, err)
	assert.Zero(t, e.typeLookup)
}
