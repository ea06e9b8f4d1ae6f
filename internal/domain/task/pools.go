// Package task generates the daily discipline tasks.
package task

// Pool names. Problem keys that have no pool of their own fall back to
// PoolConsistency.
const (
	PoolFocus           = "focus"
	PoolBehavior        = "behavior"
	PoolConsistency     = "consistency"
	PoolRecovery        = "recovery"
	PoolSyllabus        = "syllabus"
	PoolProcrastination = "procrastination"
)

// Pools holds the task titles shown to learners, in Bangla.
var Pools = map[string][]string{
	PoolFocus: {
		"পড়াশোনার সময় ফোন অন্য রুমে রাখা (১ ঘণ্টা)",
		"২৫ মিনিটের ৩টি পোমোডোরো সেশন সম্পন্ন করা",
		"পড়ার টেবিল থেকে অপ্রয়োজনীয় সব কিছু সরানো",
		"কোনো বিরতি ছাড়া ৪৫ মিনিট একাগ্রভাবে পড়া",
		"পড়াশোনা শুরুর আগে ২ মিনিট মেডিটেশন করা",
	},
	PoolBehavior: {
		"নির্ধারিত সময়ের ১৫ মিনিট আগে পড়া শুরু করা",
		"আজকের পড়ার লিস্ট ডায়েরিতে লিখে রাখা",
		"রাতে ঘুমানোর আগে পরের দিনের লক্ষ্য ঠিক করা",
		"পড়া শেষ করে অন্তত ২০ মিনিট হাঁটাহাঁটি করা",
		"বই গুছিয়ে পড়ার রুম ত্যাগ করা",
	},
	PoolConsistency: {
		"দিনের সবচেয়ে কঠিন বিষয়টি সবার আগে শেষ করা",
		"টানা ৯০ মিনিট কোনো স্ক্রিন (ফোন/ল্যাপটপ) না দেখা",
		"আজকের শেখা নতুন ৩টি টপিক রিভিশন দেওয়া",
		"পড়াশোনার মাঝে অন্য কোনো কাজ না করা",
		"দিনের পড়া শেষ করে আজকের অগ্রগতি ডায়েরিতে লেখা",
	},
	PoolRecovery: {
		"অতীতের গ্যাপ পূরণে ১ ঘণ্টা বাড়তি পড়াশোনা",
		"বাকি থাকা অন্তত ২টি রিভিশন টাস্ক সম্পন্ন করা",
		"কঠিন একটি অধ্যায় থেকে ১৫টি MCQ সলভ করা",
		"আজকের সব টাস্ক ১০০% ডিসিপ্লিনের সাথে শেষ করা",
		"কোনো অজুহাত ছাড়া টানা ২ ঘণ্টা পড়া",
	},
	PoolSyllabus: {
		"সিলেবাসের একটি বড় টপিক ছোট ছোট ভাগে ভাগ করা",
		"আজকের টপিকের ওপর ৫টি নোট তৈরি করা",
		"সূত্রগুলো একটি কাগজে লিখে দেয়ালে টাঙানো",
		"গত বছরের অন্তত ২টি বোর্ড প্রশ্ন সলভ করা",
		"অধ্যায় শেষে নিজের একটি ছোট টেস্ট নেওয়া",
	},
	PoolProcrastination: {
		"অলসতা কাটাতে ৫ মিনিটের মধ্যে পড়তে বসা",
		"সবচেয়ে বেশি ভয় পাওয়া টপিকটি ১০ মিনিট পড়া",
		"পড়ার সময় ইন্টারনেট কানেকশন অফ রাখা",
		"ছোট একটি টাস্ক সম্পন্ন করে নিজেকে পুরস্কৃত করা",
		"৫ সেকেন্ড রুল (৫-৪-৩-২-১) মেনে কাজ শুরু করা",
	},
}

// Task ids and icons.
const (
	IDRecovery = "rec_1"
	IDProblem1 = "prob_1"
	IDProblem2 = "prob_2"
	IDBehavior = "beh_1"
	IDGoal     = "goal_1"

	IconShieldAlert = "ShieldAlert"
	IconTarget      = "Target"
	IconZap         = "Zap"
	IconPenTool     = "PenTool"
	IconAward       = "Award"
)

// MaxTasks caps a day's task list.
const MaxTasks = 5
