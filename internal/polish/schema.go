package polish

import "github.com/jonathan/cv-forge/internal/llm"

// CVSchema is the response shape requested from the model
func CVSchema() *llm.Schema {
	str := func() *llm.Schema { return llm.String("") }

	return llm.Object([]string{"fullName", "summary", "experience", "education", "skills"},
		llm.Field{Name: "fullName", Schema: str()},
		llm.Field{Name: "email", Schema: str()},
		llm.Field{Name: "phone", Schema: str()},
		llm.Field{Name: "location", Schema: str()},
		llm.Field{Name: "linkedin", Schema: str()},
		llm.Field{Name: "website", Schema: str()},
		llm.Field{Name: "headline", Schema: llm.String("job title or professional headline")},
		llm.Field{Name: "summary", Schema: str()},
		llm.Field{Name: "skills", Schema: llm.String("comma separated list")},
		llm.Field{Name: "interests", Schema: llm.String("comma separated list")},
		llm.Field{Name: "experience", Schema: llm.ArrayOf(llm.Object([]string{"jobTitle", "company", "description"},
			llm.Field{Name: "id", Schema: str()},
			llm.Field{Name: "jobTitle", Schema: str()},
			llm.Field{Name: "company", Schema: str()},
			llm.Field{Name: "startDate", Schema: str()},
			llm.Field{Name: "endDate", Schema: str()},
			llm.Field{Name: "description", Schema: llm.String("polished, achievement-oriented")},
		))},
		llm.Field{Name: "education", Schema: llm.ArrayOf(llm.Object([]string{"school", "degree"},
			llm.Field{Name: "id", Schema: str()},
			llm.Field{Name: "school", Schema: str()},
			llm.Field{Name: "degree", Schema: str()},
			llm.Field{Name: "startDate", Schema: str()},
			llm.Field{Name: "endDate", Schema: str()},
			llm.Field{Name: "description", Schema: str()},
		))},
		llm.Field{Name: "awards", Schema: llm.ArrayOf(llm.Object([]string{"title", "issuer"},
			llm.Field{Name: "id", Schema: str()},
			llm.Field{Name: "title", Schema: str()},
			llm.Field{Name: "issuer", Schema: str()},
			llm.Field{Name: "date", Schema: str()},
			llm.Field{Name: "description", Schema: str()},
		))},
		llm.Field{Name: "memberships", Schema: llm.ArrayOf(llm.Object([]string{"role", "organization"},
			llm.Field{Name: "id", Schema: str()},
			llm.Field{Name: "role", Schema: str()},
			llm.Field{Name: "organization", Schema: str()},
			llm.Field{Name: "date", Schema: str()},
		))},
	)
}
