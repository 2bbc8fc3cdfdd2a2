package handler_test

import (
	"bytes"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/terassyi/coredump/internal/handler"
)

var _ = Describe("Recover", func() {
	var (
		dir    string
		logBuf *bytes.Buffer
		logger *slog.Logger
		saved  []string
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		logBuf = &bytes.Buffer{}
		logger = slog.New(slog.NewTextHandler(logBuf, nil))
		saved = nil
	})

	serve := func(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	options := func(extra ...handler.Option) []handler.Option {
		return append([]handler.Option{
			handler.WithHint(dir),
			handler.WithLogger(logger),
			handler.WithSaveHook(func(p string) { saved = append(saved, p) }),
		}, extra...)
	}

	It("passes through requests that do not panic", func() {
		h := handler.Recover(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}), options()...)

		rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusTeapot))
		Expect(saved).To(BeEmpty())
		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("writes one dump per panic and answers 500", func() {
		h := handler.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("kaboom")
		}), options(handler.WithSession(func(*http.Request) map[string]any {
			return map[string]any{"user": "gopher"}
		}))...)

		rec := serve(h, httptest.NewRequest(http.MethodGet, "/boom?id=7", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(saved).To(HaveLen(1))
		Expect(filepath.Dir(saved[0])).To(Equal(dir))
		Expect(filepath.Base(saved[0])).To(MatchRegexp(`^[0-9a-f]{40}\.coredump$`))

		data, err := os.ReadFile(saved[0])
		Expect(err).NotTo(HaveOccurred())
		content := string(data)
		Expect(content).To(HavePrefix("==============================\n Error\n==============================\n"))
		Expect(content).To(ContainSubstring("Class    : string"))
		Expect(content).To(ContainSubstring("Message  : kaboom"))
		Expect(content).To(ContainSubstring(" $_SERVER\n"))
		Expect(content).To(ContainSubstring("[id] => 7"))
		Expect(content).To(ContainSubstring("[user] => gopher"))
		Expect(content).NotTo(ContainSubstring("$_POST"))
		Expect(content).NotTo(ContainSubstring("$_ENV"))

		Expect(logBuf.String()).To(ContainSubstring("handler panicked"))
		Expect(logBuf.String()).To(ContainSubstring(saved[0]))
	})

	It("still answers 500 when the dump cannot be written", func() {
		h := handler.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("kaboom")
		}), options(handler.WithHint(filepath.Join(dir, "missing", "#.coredump")))...)

		rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(saved).To(BeEmpty())
		Expect(logBuf.String()).To(ContainSubstring("failed to save core dump"))
	})

	It("re-raises http.ErrAbortHandler", func() {
		h := handler.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		}), options()...)

		Expect(func() {
			serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
		}).To(PanicWith(http.ErrAbortHandler))
		Expect(saved).To(BeEmpty())
	})

	It("includes the process environment when asked", func() {
		GinkgoT().Setenv("COREDUMP_HANDLER_VAR", "present")
		h := handler.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("kaboom")
		}), options(handler.WithProcessEnv())...)

		serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(saved).To(HaveLen(1))
		data, err := os.ReadFile(saved[0])
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("[COREDUMP_HANDLER_VAR] => present"))
	})

	It("records uploaded files with a small multipart memory limit", func() {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		fw, err := mw.CreateFormFile("upload", "report.txt")
		Expect(err).NotTo(HaveOccurred())
		_, err = fw.Write(bytes.Repeat([]byte("x"), 4096))
		Expect(err).NotTo(HaveOccurred())
		Expect(mw.WriteField("note", "large")).To(Succeed())
		Expect(mw.Close()).To(Succeed())

		h := handler.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("kaboom")
		}), options(handler.WithMaxMemory(1))...)

		req := httptest.NewRequest(http.MethodPost, "/upload", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := serve(h, req)

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(saved).To(HaveLen(1))
		data, err := os.ReadFile(saved[0])
		Expect(err).NotTo(HaveOccurred())
		content := string(data)
		Expect(content).To(ContainSubstring(" $_FILES\n"))
		Expect(content).To(ContainSubstring("[name] => report.txt"))
		Expect(content).To(ContainSubstring("[size] => 4096"))
		Expect(content).To(ContainSubstring("[note] => large"))
	})
})
