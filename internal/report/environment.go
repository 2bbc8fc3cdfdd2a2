package report

// Environment carries the request and process context captured with a
// report. A nil map means the source is unavailable and produces no section;
// an empty map still produces one.
type Environment struct {
	Server  map[string]any
	Get     map[string]any
	Post    map[string]any
	Files   map[string]any
	Cookie  map[string]any
	Session map[string]any
	Request map[string]any
	Env     map[string]any
}

// Section names of the environment sources, in render order.
const (
	SectionServer  = "$_SERVER"
	SectionGet     = "$_GET"
	SectionPost    = "$_POST"
	SectionFiles   = "$_FILES"
	SectionCookie  = "$_COOKIE"
	SectionSession = "$_SESSION"
	SectionRequest = "$_REQUEST"
	SectionEnv     = "$_ENV"
)

// EnvironmentSections lists the environment section names in render order.
var EnvironmentSections = []string{
	SectionServer,
	SectionGet,
	SectionPost,
	SectionFiles,
	SectionCookie,
	SectionSession,
	SectionRequest,
	SectionEnv,
}

// sections returns the present sources as sections in canonical order.
func (e Environment) sections() []Section {
	sources := []map[string]any{
		e.Server,
		e.Get,
		e.Post,
		e.Files,
		e.Cookie,
		e.Session,
		e.Request,
		e.Env,
	}

	var out []Section
	for i, m := range sources {
		if m == nil {
			continue
		}
		out = append(out, Section{Name: EnvironmentSections[i], Value: DataValue(m)})
	}
	return out
}
