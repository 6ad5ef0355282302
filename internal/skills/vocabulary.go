// Package skills matches free text against a curated skill vocabulary.
package skills

// Term is a vocabulary entry. Name carries the canonical casing returned to
// callers; Aliases are alternative spellings that map to the same skill.
// CaseSensitive names only match their exact casing (aliases never are),
// so short words like "Go" stay out of ordinary prose.
type Term struct {
	Name          string
	Aliases       []string
	CaseSensitive bool
}

// Category is a named, ordered group of terms.
type Category struct {
	Name  string
	Terms []Term
}

// vocabulary is scanned in order: categories first to last, terms in
// listed order. Never mutated after init.
var vocabulary = []Category{
	{
		Name: "technical",
		Terms: []Term{
			{Name: "JavaScript", Aliases: []string{"js", "ecmascript"}},
			{Name: "TypeScript"},
			{Name: "Python"},
			{Name: "Java"},
			{Name: "Go", Aliases: []string{"golang"}, CaseSensitive: true},
			{Name: "Rust"},
			{Name: "C++", Aliases: []string{"cpp"}},
			{Name: "C#", Aliases: []string{"csharp"}},
			{Name: "Ruby"},
			{Name: "PHP"},
			{Name: "Swift"},
			{Name: "Kotlin"},
			{Name: "Scala"},
			{Name: "React", Aliases: []string{"react.js", "reactjs"}},
			{Name: "Angular"},
			{Name: "Vue", Aliases: []string{"vue.js", "vuejs"}},
			{Name: "Next.js", Aliases: []string{"nextjs"}},
			{Name: "Node.js", Aliases: []string{"nodejs"}},
			{Name: "Django"},
			{Name: "Flask"},
			{Name: "Spring"},
			{Name: "Rails", Aliases: []string{"ruby on rails"}},
			{Name: ".NET", Aliases: []string{"dotnet"}},
			{Name: "GraphQL"},
			{Name: "REST", Aliases: []string{"restful"}, CaseSensitive: true},
			{Name: "SQL"},
			{Name: "PostgreSQL", Aliases: []string{"postgres"}},
			{Name: "MySQL"},
			{Name: "MongoDB", Aliases: []string{"mongo"}},
			{Name: "Redis"},
			{Name: "Elasticsearch"},
			{Name: "Kafka"},
			{Name: "AWS", Aliases: []string{"amazon web services"}},
			{Name: "Azure"},
			{Name: "GCP", Aliases: []string{"google cloud"}},
			{Name: "Docker"},
			{Name: "Kubernetes", Aliases: []string{"k8s"}},
			{Name: "Terraform"},
			{Name: "CI/CD"},
			{Name: "Git"},
			{Name: "Linux"},
			{Name: "HTML"},
			{Name: "CSS"},
			{Name: "Machine Learning", Aliases: []string{"ml"}},
			{Name: "TensorFlow"},
			{Name: "PyTorch"},
			{Name: "Microservices"},
		},
	},
	{
		Name: "soft",
		Terms: []Term{
			{Name: "Communication"},
			{Name: "Leadership"},
			{Name: "Teamwork", Aliases: []string{"team player"}},
			{Name: "Problem Solving", Aliases: []string{"problem-solving"}},
			{Name: "Collaboration"},
			{Name: "Mentoring", Aliases: []string{"mentorship"}},
			{Name: "Time Management"},
			{Name: "Critical Thinking"},
			{Name: "Adaptability"},
		},
	},
	{
		Name: "business",
		Terms: []Term{
			{Name: "Project Management"},
			{Name: "Product Management"},
			{Name: "Agile"},
			{Name: "Scrum"},
			{Name: "Stakeholder Management"},
			{Name: "Data Analysis"},
			{Name: "Excel"},
			{Name: "Salesforce"},
			{Name: "Jira"},
			{Name: "Budgeting"},
		},
	},
	{
		Name: "domain",
		Terms: []Term{
			{Name: "Fintech"},
			{Name: "Healthcare"},
			{Name: "E-commerce", Aliases: []string{"ecommerce"}},
			{Name: "SaaS"},
			{Name: "Cybersecurity", Aliases: []string{"security engineering"}},
			{Name: "Blockchain"},
			{Name: "Data Science"},
			{Name: "DevOps"},
		},
	},
}

// Categories returns the vocabulary category names in scan order.
func Categories() []string {
	names := make([]string, len(vocabulary))
	for i, c := range vocabulary {
		names[i] = c.Name
	}
	return names
}

// Vocabulary returns a copy of the vocabulary.
func Vocabulary() []Category {
	out := make([]Category, len(vocabulary))
	for i, c := range vocabulary {
		out[i] = Category{Name: c.Name, Terms: append([]Term(nil), c.Terms...)}
	}
	return out
}
