package progress

import (
	"fmt"

	"github.com/brayner/brayner/internal/domain/document"
)

// DefaultSubject is used when the assessment names no weak subjects.
const DefaultSubject = "General Study"

// ReflectionQuestion closes every program day.
const ReflectionQuestion = "আজ কি আরামের চেয়ে শৃঙ্খলাকে বেশি প্রাধান্য দিয়েছেন?"

const (
	intensityIntensive = "নিবিড়"
	intensityRegular   = "নিয়মিত"
	fallbackTopic      = "প্রধান বিষয় দক্ষতা"
	fallbackChallenge  = "পড়ার টেবিল সব সময় গুছিয়ে রাখুন।"
)

// challenges are keyed by primary problem.
var challenges = map[document.Problem]string{
	document.ProblemFocus:           "পোমোডোরো পদ্ধতি: ২৫ মিনিট পড়া, ৫ মিনিট বিরতি। রুমে ফোন রাখা যাবে না।",
	document.ProblemDiscipline:      "সকাল ৮টার আগে প্রথম স্টাডি ব্লক শুরু করুন।",
	document.ProblemSyllabus:        "পড়া শুরুর আগে একটি চ্যাপ্টার ম্যাপ তৈরি করুন।",
	document.ProblemProcrastination: "সবচেয়ে কঠিন টপিকটি প্রথম ৪৫ মিনিটে শেষ করুন।",
}

// Topics lists study topics per subject.
var Topics = map[string][]string{
	"Physics":     {"ভেক্টর ক্যালকুলাস", "নিউটনিয়ান মেকানিক্স", "কাজ ও শক্তি", "মহাকর্ষ", "স্থির তড়িৎ", "তাপগতিবিদ্যা", "তরঙ্গ", "নিউক্লিয়ার পদার্থবিজ্ঞান"},
	"Math":        {"ত্রিকোণমিতি", "ক্যালকুলাস", "ম্যাট্রিক্স", "ইন্টিগ্রেশন", "সম্ভাবনা", "স্থানাঙ্ক জ্যামিতি", "সেট তত্ত্ব", "ফাংশন"},
	"Chemistry":   {"পরমাণুর গঠন", "জৈব রসায়ন", "সাম্যাবস্থা", "তড়িৎ রসায়ন", "পর্যায় সারণী", "গ্যাস সূত্র", "পরিমাণগত রসায়ন"},
	"Biology":     {"কোষ জীববিজ্ঞান", "জেনেটিক্স", "মানব শারীরস্থান", "উদ্ভিদবিজ্ঞান", "বায়োটেকনোলজি", "বাস্তুসংস্থান", "টিস্যু"},
	"Bangla":      {"ব্যাকরণ দক্ষতা", "কবিতা বিশ্লেষণ", "সৃজনশীল লিখন", "ঐতিহাসিক প্রেক্ষাপট"},
	"English":     {"গ্রামার ফাউন্ডেশন", "ভোকাবুলারি", "রিডিং কম্প্রিহেনশন", "এসে স্ট্রাকচার"},
	"ICT":         {"সংখ্যা পদ্ধতি", "ডিজিটাল লজিক", "ওয়েব ডিজাইন", "প্রোগ্রামিং বেসিক"},
	"General Sci": {"পরিবেশ বিজ্ঞান", "খাদ্য ও পুষ্টি", "আলো ও শব্দ", "ভৌত মহাবিশ্ব"},
}

// ComebackPlan builds the 30 day plans for an assessment. Subjects rotate
// day by day; each full rotation moves to the next topic of every subject.
func ComebackPlan(a document.Assessment) []document.DayPlan {
	subjects := a.WeakSubjects
	if len(subjects) == 0 {
		subjects = []string{DefaultSubject}
	}

	intensity := intensityRegular
	if a.PrimaryGoal.IsElevated() {
		intensity = intensityIntensive
	}
	questions := 15
	if a.PrimaryGoal == document.GoalGPA5 {
		questions = 25
	}
	challenge, ok := challenges[a.PrimaryProblem]
	if !ok {
		challenge = fallbackChallenge
	}

	plans := make([]document.DayPlan, 0, document.ProgramLength)
	for i := 1; i <= document.ProgramLength; i++ {
		subject := subjects[(i-1)%len(subjects)]
		topics, ok := Topics[subject]
		if !ok || len(topics) == 0 {
			topics = []string{fallbackTopic}
		}
		topic := topics[((i-1)/len(subjects))%len(topics)]

		plans = append(plans, document.DayPlan{
			Day:                 i,
			Subject:             subject,
			FocusConcept:        fmt.Sprintf("%s - %s পর্যালোচনা", topic, intensity),
			PracticeTask:        fmt.Sprintf("%dটি MCQ এবং ৩টি সৃজনশীল প্রশ্ন সমাধান (%s - %s)।", questions, subject, topic),
			DisciplineChallenge: challenge,
			ReflectionQuestion:  ReflectionQuestion,
		})
	}
	return plans
}

// SeedWeakAreas turns weak subjects into initial weak areas.
func SeedWeakAreas(subjects []string) []document.WeakArea {
	out := make([]document.WeakArea, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, document.WeakArea{
			Subject:    s,
			Issue:      "Concept confusion",
			Suggestion: fmt.Sprintf("%s এর মূল বিষয়ের দিকে মনোযোগ দিন।", s),
		})
	}
	return out
}
