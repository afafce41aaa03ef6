package config

// Built-in word catalogues. These are fallbacks only: deployments override
// them in YAML, and the matching logic never depends on the specific lists.

// DefaultSystemInstructions is the generation preamble.
const DefaultSystemInstructions = "you are sibyl, a composed, knowledgeable, and ethically bound assistant. " +
	"respond with precision, humility, and clarity. " +
	"use the provided context as your only source of truth; do not fabricate details. " +
	"cite or paraphrase from context explicitly when possible. " +
	"maintain a calm, respectful tone. " +
	"when context is missing or incomplete, say 'insufficient context'. " +
	"avoid speculation, bias, or emotional exaggeration."

// DefaultFillerReply replaces empty generation output.
const DefaultFillerReply = "let me reflect on that more deeply..."

// DefaultRestrictedTerms returns the built-in blocking keyword list.
// Matched whole-word, case-insensitive.
func DefaultRestrictedTerms() []string {
	return []string{
		// violence & crime
		"violence", "murder", "kill", "attack", "weapon", "gun", "bomb",
		"terrorism", "torture", "abuse", "rape", "assault", "massacre",
		"suicide", "self-harm", "stab", "shoot", "explosive", "kidnap",
		// drugs & illegal substances
		"cocaine", "heroin", "ecstasy", "meth", "lsd", "narcotic",
		"smuggle", "overdose",
		// hate speech & discrimination
		"racism", "slur", "homophobia", "xenophobia", "sexism", "nazi",
		"genocide", "bigotry",
		// explicit & adult
		"porn", "nsfw", "erotic", "fetish", "incest", "explicit",
		// illegal acts
		"scam", "fraud", "phishing", "extortion", "blackmail", "forgery",
		"counterfeit", "bribery", "embezzlement",
		// sensitive political content
		"assassination", "coup", "insurgency", "terrorist", "militant",
		// personal privacy & data
		"dox", "doxxing", "exfiltration",
		// minors
		"pedophilia", "underage",
		// body harm / gore
		"gore", "dismember",
	}
}

// DefaultSensitiveTopics returns the built-in advisory topic list.
// Matched as plain substrings.
func DefaultSensitiveTopics() []string {
	return []string{
		// social & moral
		"religion", "politics", "sexuality", "gender identity", "mental health",
		"abortion", "death", "addiction", "trauma", "discrimination", "war",
		"poverty",
		// health & medicine
		"disease", "pandemic", "cancer", "medical treatment", "therapy",
		"surgery", "depression", "anxiety", "eating disorder",
		// finance & security
		"investment", "trading", "crypto", "loan", "debt", "insurance",
		"economic crisis",
		// tech & privacy
		"ai ethics", "data privacy", "cybersecurity", "surveillance",
		"dark web", "malware", "social engineering",
		// cultural & identity
		"caste", "ethnicity", "lgbtq", "nationalism", "migration",
		"colonialism", "slavery", "oppression",
		// family & relationships
		"divorce", "infidelity", "domestic violence", "childhood trauma",
		"toxic relationship",
		// science & society
		"climate change", "genetic modification", "vaccination",
		"nuclear power", "weaponization",
	}
}

// DefaultToneSubstitutions returns the word-for-word softening table applied
// to generated output.
func DefaultToneSubstitutions() map[string]string {
	return map[string]string{
		"angry":    "concerned",
		"furious":  "firm",
		"stupid":   "uninformed",
		"hate":     "dislike",
		"kill":     "stop",
		"wrong":    "incorrect",
		"argument": "discussion",
		"fight":    "disagreement",
	}
}

// DefaultIntentPriority returns the tie-break order used when several
// domains match one query.
func DefaultIntentPriority() []string {
	return []string{"ai_ml", "code", "math", "philosophy", "relationship", "health"}
}

// DefaultIntentDomains returns the built-in keyword catalogue. Order matters:
// the classifier falls back to the first matched domain in this order when
// no priority domain matched.
func DefaultIntentDomains() []IntentDomain {
	return []IntentDomain{
		{Name: "code", Keywords: []string{
			"python", "javascript", "typescript", "react", "nextjs", "node", "api",
			"program", "function", "loop", "class", "variable", "bug", "debug",
			"html", "css", "java", "c++", "c#", "swift", "kotlin", "sql",
			"database", "mongodb", "postgres", "mysql", "backend", "frontend",
			"framework", "library", "deploy", "docker", "kubernetes", "pipeline",
			"git", "github", "compiler", "algorithm", "data structure",
			"exception", "package", "npm", "pip",
		}},
		{Name: "devops", Keywords: []string{
			"aws", "azure", "gcp", "server", "deployment", "ssh", "linux",
			"ubuntu", "container", "dockerfile", "k8s", "ci/cd", "load balancer",
			"nginx", "apache", "virtual machine", "dns", "ssl", "firewall",
			"proxy", "bash", "shell", "terminal", "cli",
		}},
		{Name: "math", Keywords: []string{
			"solve", "calculate", "add", "subtract", "multiply", "divide",
			"integrate", "derivative", "algebra", "geometry", "calculus",
			"matrix", "probability", "statistic", "mean", "median", "equation",
			"trigonometry", "logarithm", "square root", "theorem", "formula",
			"simplify",
		}},
		{Name: "ai_ml", Keywords: []string{
			"machine learning", "deep learning", "neural network", "training",
			"dataset", "tensor", "pytorch", "tensorflow", "huggingface",
			"openai", "gpt", "bert", "llm", "tokenizer", "accuracy", "epoch",
			"artificial intelligence", "predict", "classify", "nlp",
			"regression", "clustering", "image recognition",
		}},
		{Name: "science", Keywords: []string{
			"atom", "molecule", "energy", "reaction", "photosynthesis",
			"gravity", "evolution", "physics", "chemistry", "biology",
			"organism", "dna", "gene", "planet", "solar system", "astronomy",
			"experiment", "quantum", "velocity", "magnetism", "electricity",
		}},
		{Name: "health", Keywords: []string{
			"medicine", "treatment", "disease", "symptom", "infection",
			"diagnosis", "doctor", "therapy", "nutrition", "diet", "exercise",
			"yoga", "mental health", "fitness", "remedy", "virus", "vaccine",
			"hospital", "surgery",
		}},
		{Name: "finance", Keywords: []string{
			"money", "tax", "bank", "loan", "investment", "stock", "market",
			"interest", "savings", "profit", "revenue", "income", "trading",
			"portfolio", "bitcoin", "ethereum", "crypto", "blockchain",
			"wallet", "mutual fund", "forex", "debt", "credit", "insurance",
			"inflation", "budget", "salary",
		}},
		{Name: "philosophy", Keywords: []string{
			"truth", "karma", "dharma", "enlightenment", "meaning of life",
			"soul", "ethics", "logic", "nirvana", "duality", "wisdom",
			"consciousness", "scripture", "vedas", "upanishads", "buddhism",
			"stoicism", "existentialism", "bhagavad gita",
		}},
		{Name: "mythology", Keywords: []string{
			"vishnu", "shiva", "brahma", "hanuman", "mahabharata", "ramayana",
			"durga", "ganesha", "kurukshetra", "zeus", "poseidon", "odin",
			"thor", "loki", "athena", "apollo", "anubis",
		}},
		{Name: "relationship", Keywords: []string{
			"love", "marriage", "relationship", "breakup", "trust", "feelings",
			"partner", "emotion", "intimacy", "friendship", "dating",
			"boundaries", "commitment", "compatibility", "couple",
		}},
		{Name: "psychology", Keywords: []string{
			"behavior", "mindset", "stress", "motivation", "depression",
			"memory", "subconscious", "personality", "habit", "anxiety",
			"counseling", "self-awareness",
		}},
		{Name: "art_design", Keywords: []string{
			"painting", "drawing", "sketch", "design", "figma", "illustrator",
			"poster", "logo", "typography", "animation", "graphic",
			"illustration", "aesthetic",
		}},
		{Name: "social", Keywords: []string{
			"society", "culture", "festival", "media", "twitter", "instagram",
			"trend", "meme", "influencer", "community", "equality", "justice",
			"tradition", "heritage",
		}},
		{Name: "law", Keywords: []string{
			"constitution", "court", "lawyer", "judge", "petition", "verdict",
			"legal", "contract", "bail", "advocate", "litigation",
			"arbitration", "regulation",
		}},
		{Name: "education", Keywords: []string{
			"learn", "study", "exam", "homework", "assignment", "degree",
			"course", "school", "college", "university", "teacher", "student",
			"textbook", "quiz", "revision", "research", "gpa",
		}},
		{Name: "computing", Keywords: []string{
			"windows", "macos", "android", "ios", "operating system", "cpu",
			"ram", "hardware", "software", "install", "driver", "boot", "bios",
			"wifi", "bluetooth", "laptop", "tablet",
		}},
		{Name: "strategy", Keywords: []string{
			"battle", "army", "strategy", "tactics", "leadership", "victory",
			"defense", "negotiation", "sun tzu", "art of war",
		}},
		{Name: "business", Keywords: []string{
			"startup", "brand", "marketing", "sales", "customer", "growth",
			"analytics", "kpi", "campaign", "seo", "branding", "pitch",
			"investor", "funding", "b2b", "b2c",
		}},
		{Name: "self_growth", Keywords: []string{
			"motivation", "discipline", "success", "failure", "focus", "goals",
			"habits", "productivity", "self improvement", "routine",
			"confidence", "mindfulness", "consistency", "patience",
		}},
		{Name: "entertainment", Keywords: []string{
			"movie", "music", "song", "film", "series", "netflix", "anime",
			"manga", "game", "football", "cricket", "basketball", "tennis",
			"guitar", "dance", "playstation", "xbox", "marvel", "superhero",
			"bollywood", "hollywood",
		}},
		{Name: "history", Keywords: []string{
			"ancient", "medieval", "emperor", "dynasty", "revolution",
			"civilization", "timeline", "independence", "empire", "world war",
			"mughal", "roman", "greek",
		}},
	}
}
