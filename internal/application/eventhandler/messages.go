package eventhandler

import (
	"fmt"

	"github.com/brayner/brayner/internal/domain/document"
)

// message is a localized title/body pair.
type message struct {
	title string
	body  string
}

type catalog map[document.Language]message

// get falls back to Bangla for any language without an entry.
func (c catalog) get(lang document.Language) message {
	if m, ok := c[lang]; ok {
		return m
	}
	return c[document.LanguageBangla]
}

var (
	dayCompletedMsg = catalog{
		document.LanguageEnglish: {"Day Completed!", "Congratulations! You have completed Day %d."},
		document.LanguageBangla:  {"দিন সম্পন্ন!", "অভিনন্দন! আপনি দিন %d সম্পন্ন করেছেন।"},
	}

	focusCompletedMsg = catalog{
		document.LanguageEnglish: {"Focus Session Complete!", "Your %d-minute focus session is done. Great work!"},
		document.LanguageBangla:  {"ফোকাস সেশন সম্পন্ন!", "আপনার %d মিনিটের ফোকাস সেশন শেষ। চমৎকার কাজ!"},
	}

	comebackMsg = catalog{
		document.LanguageEnglish: {"Time for your comeback", "You missed %d day(s). Day %d is waiting for you."},
		document.LanguageBangla:  {"ফিরে আসার সময়", "আপনি %d দিন মিস করেছেন। দিন %d আপনার জন্য অপেক্ষা করছে।"},
	}

	levelUpMsg = catalog{
		document.LanguageEnglish: {"Level Up!", "You reached Level %d: %s."},
		document.LanguageBangla:  {"লেভেল আপ!", "আপনি লেভেল %d এ পৌঁছেছেন: %s।"},
	}
)

func (m message) format(args ...any) (string, string) {
	return m.title, fmt.Sprintf(m.body, args...)
}
