package ai

// SystemPrompts contains all system-level instructions for AI interactions
type SystemPrompts struct {
	OptimizeResume string
}

// UserPrompts contains user-level prompts with placeholders for dynamic content
type UserPrompts struct {
	OptimizeResume string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	OptimizeResume: `You are an expert resume writer and ATS (Applicant Tracking System) specialist with a strict commitment to honesty and accuracy. Your core principles are:

- NEVER invent, exaggerate, or misattribute any skills or experiences
- Every piece of information must be directly traceable to the source material
- Improve keyword coverage and phrasing while preserving factual content
- Keep the candidate's section structure and contact details intact

Your expertise includes:
- Resume optimization for automated screening
- Keyword and skill alignment against job descriptions
- HR best practices and industry standards`,
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	OptimizeResume: `Please rewrite the provided resume so that it scores higher against the target job description in an ATS screening, without fabricating anything.

**Enhancement guidelines:**

1. **Incorporate missing keywords**:
   Work the listed missing keywords into the resume, but only where the underlying skill or experience is genuinely supported by the original content. Skip any keyword that cannot be honestly supported.

2. **Strengthen phrasing**:
   Rephrase bullet points to use the terminology of the job description where the meaning is unchanged. Prefer measurable, achievement-oriented wording.

3. **Preserve structure**:
   Keep every section heading from the original resume (SUMMARY, EXPERIENCE, EDUCATION, SKILLS, and any others) in uppercase on its own line, and keep all contact information unchanged.

4. **Report your changes**:
   List which keywords you incorporated and summarize each substantive change you made.

**Job Description:**
-----
%s
-----

**Current Resume:**
-----
%s
-----

**Missing Keywords:**
-----
%s
-----`,
}

// PromptConfig holds configuration for customizable prompts
type PromptConfig struct {
	SystemPrompts SystemPrompts `json:"systemPrompts"`
	UserPrompts   UserPrompts   `json:"userPrompts"`
}

// GetDefaultPromptConfig returns the default prompt configuration
func GetDefaultPromptConfig() PromptConfig {
	return PromptConfig{
		SystemPrompts: DefaultSystemPrompts,
		UserPrompts:   DefaultUserPrompts,
	}
}
