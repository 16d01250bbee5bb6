package artifact

import (
	"fmt"
	"path/filepath"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/nguyentantai21042004/caption-batch/internal/transcript"
)

const (
	TranscriptDocxFile = "transcript.docx"
	SummaryDocxFile    = "summary.docx"

	fontName  = "Times New Roman"
	fontSize  = 12
	titleSize = 16
)

// exportDocx renders the transcript and, when there is one, the summary as
// Word documents next to the plain-text artifacts.
func exportDocx(dir, name string, segments []transcript.Segment, sentences []string) error {
	if err := transcriptToDocx(name, segments, filepath.Join(dir, TranscriptDocxFile)); err != nil {
		return fmt.Errorf("transcript docx: %w", err)
	}
	if len(sentences) == 0 {
		return nil
	}
	if err := summaryToDocx(name, sentences, filepath.Join(dir, SummaryDocxFile)); err != nil {
		return fmt.Errorf("summary docx: %w", err)
	}
	return nil
}

func transcriptToDocx(name string, segments []transcript.Segment, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), "Transcript: "+name, true, titleSize)
	doc.AddParagraph("")

	for _, s := range segments {
		p := doc.AddParagraph("")
		addStyledRun(p, fmt.Sprintf("[%s - %s] ", Timestamp(s.Start), Timestamp(s.End)), true, fontSize)
		addStyledRun(p, s.Text, false, fontSize)
	}

	return doc.SaveTo(outputPath)
}

func summaryToDocx(name string, sentences []string, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), "Summary: "+name, true, titleSize)

	for _, s := range sentences {
		addStyledRun(doc.AddParagraph(""), "• "+s, false, fontSize)
	}

	return doc.SaveTo(outputPath)
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
