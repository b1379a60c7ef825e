package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gardar/textalign/pkg/syllable"
	"github.com/gardar/textalign/pkg/textalign"
)

func newSyllabifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "syllabify [words...]",
		Short: "Split Latin text into syllables",
		Long:  `Split Latin text into syllables, printing each word with its syllables joined by '-'. Without arguments the text is read from stdin, one output line per input line.`,
		Example: `  textalign syllabify gloria patri
  echo "dominus vobiscum" | textalign syllabify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) > 0 {
				line, err := hyphenate(strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintln(out, line)
				return nil
			}

			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				line, err := hyphenate(sc.Text())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, line)
			}
			return sc.Err()
		},
	}
}

// hyphenate normalizes text like a transcript and joins the syllables of each word with '-'
func hyphenate(text string) (string, error) {
	words := strings.Fields(textalign.NormalizeTranscript(text))
	out := make([]string, 0, len(words))
	for _, w := range words {
		syls, err := syllable.SyllabifyWord(w)
		if err != nil {
			return "", fmt.Errorf("%q: %w", w, err)
		}
		out = append(out, strings.Join(syls, "-"))
	}
	return strings.Join(out, " "), nil
}
