package termcore

import "io"

// ResponseProvider writes terminal responses (DSR/DA replies, clipboard
// query replies) back toward the PTY input side.
type ResponseProvider = io.Writer

// NoopResponse discards all response data.
type NoopResponse struct{}

func (NoopResponse) Write(p []byte) (int, error) { return len(p), nil }

// BellProvider handles BEL (0x07) events.
type BellProvider interface{ Ring() }

// NoopBell ignores bell events.
type NoopBell struct{}

func (NoopBell) Ring() {}

// TitleProvider handles window title changes: OSC 0 and OSC 2 call
// SetTitle. The Terminal does not call PushTitle or PopTitle.
type TitleProvider interface {
	SetTitle(title string)
	PushTitle()
	PopTitle()
}

// NoopTitle ignores title operations.
type NoopTitle struct{}

func (NoopTitle) SetTitle(string) {}
func (NoopTitle) PushTitle()      {}
func (NoopTitle) PopTitle()       {}

// ClipboardProvider backs OSC 52 clipboard get/set, the "external clipboard
// collaborator" spec §4.2 delegates to.
type ClipboardProvider interface {
	Read(selection byte) string
	Write(selection byte, data []byte)
}

// NoopClipboard discards writes and returns empty reads.
type NoopClipboard struct{}

func (NoopClipboard) Read(byte) string       { return "" }
func (NoopClipboard) Write(byte, []byte) {}

// ScrollbackProvider persists lines evicted from the grid's ring. The
// default grid keeps scrollback purely in-ring (bounded by maxHistory), so
// this provider exists for callers that want eviction mirrored to disk or a
// database; it is notified, not consulted, for reads.
type ScrollbackProvider interface {
	Push(line Line)
}

// NoopScrollback discards evicted lines.
type NoopScrollback struct{}

func (NoopScrollback) Push(Line) {}

// RecordingProvider captures raw input bytes before parsing, the building
// block reftest.Recorder wraps with a fixture format.
type RecordingProvider interface {
	Record(data []byte)
	Data() []byte
	Clear()
}

// NoopRecording discards all recorded bytes.
type NoopRecording struct{}

func (NoopRecording) Record([]byte) {}
func (NoopRecording) Data() []byte  { return nil }
func (NoopRecording) Clear()        {}

// URLLauncherProvider opens a hint's matched text as a URL, the "external
// URL launcher" spec §4.6 names as a hint action collaborator.
type URLLauncherProvider interface{ Open(url string) error }

// NoopURLLauncher ignores open requests.
type NoopURLLauncher struct{}

func (NoopURLLauncher) Open(string) error { return nil }

var (
	_ ResponseProvider   = NoopResponse{}
	_ BellProvider        = NoopBell{}
	_ TitleProvider       = NoopTitle{}
	_ ClipboardProvider   = NoopClipboard{}
	_ ScrollbackProvider  = NoopScrollback{}
	_ RecordingProvider   = NoopRecording{}
	_ URLLauncherProvider = NoopURLLauncher{}
)
