package report

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gingfrederik/docx"

	"github-radar/internal/project"
)

// Writer assembles the DOCX report, one project section at a time.
type Writer struct {
	file *docx.File
}

func NewWriter(now time.Time) *Writer {
	f := docx.NewFile()

	title := f.AddParagraph()
	run := title.AddText("GitHub Quality Project Report")
	run.Size(20)

	stamp := f.AddParagraph()
	stampRun := stamp.AddText(fmt.Sprintf("Generated: %s", now.Format("2006-01-02 15:04")))
	stampRun.Size(10)
	stampRun.Color("808080")

	f.AddParagraph()

	return &Writer{file: f}
}

// AddProject appends one project section: name, URL, key figures,
// description and the narrative analysis, closed by a separator rule.
func (w *Writer) AddProject(p project.Scored) {
	name := w.file.AddParagraph()
	nameRun := name.AddText(p.Name)
	nameRun.Size(16)

	url := w.file.AddParagraph()
	urlRun := url.AddText(p.URL)
	urlRun.Size(10)
	urlRun.Color("0000FF")

	info := w.file.AddParagraph()
	infoRun := info.AddText(fmt.Sprintf("Stars: %d | Forks: %d | Language: %s | Quality: %.1f/100",
		p.Stars, p.Forks, p.LanguageName(), p.QualityScore))
	infoRun.Size(10)

	if desc := p.DescriptionText(); desc != "" {
		w.file.AddParagraph().AddText(desc)
	}

	for _, paragraph := range strings.Split(p.Analysis, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph != "" {
			w.file.AddParagraph().AddText(paragraph)
		}
	}

	w.file.AddParagraph()
	sep := w.file.AddParagraph()
	sepRun := sep.AddText(strings.Repeat("=", 50))
	sepRun.Color("808080")
	w.file.AddParagraph()

	log.Printf("📄 Added report section | project: %s", p.Name)
}

func (w *Writer) Save(path string) error {
	if err := w.file.Save(path); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	log.Printf("✅ Report saved: %s", path)
	return nil
}
