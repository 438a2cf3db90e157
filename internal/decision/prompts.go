package decision

import (
	"fmt"
	"strings"

	"github.com/scoutline/scoutline/internal/directory"
)

func buildSelectionPrompt(organization string, candidates []directory.Candidate) string {
	var list strings.Builder
	for _, c := range candidates {
		title := c.JobTitle
		if title == "" {
			title = "—"
		}
		fmt.Fprintf(&list, "- person_id: %s, full_name: %s, job_title: %s\n", c.PersonID, c.FullName, title)
	}

	return fmt.Sprintf(`You are given a company and a list of people who work there. Choose the ONE person who is the highest decision maker (e.g. CEO, Managing Director, Head of, most senior role). If unclear, pick the most senior role.

Company: %s

People:
%s`, organization, list.String())
}

func buildOutboundPrompt(req MessageRequest) string {
	fullName := strings.TrimSpace(req.FullName)
	firstName := "there"
	if parts := strings.Fields(fullName); len(parts) > 0 {
		firstName = parts[0]
	}
	if fullName == "" {
		fullName = "Unknown"
	}
	position := strings.TrimSpace(req.Position)
	if position == "" {
		position = "(none)"
	}

	return fmt.Sprintf(`You are writing a short, personalized outbound message to a senior leader at a logistics company, on behalf of an AI startup interested in working with them.

CRITICAL: You MUST use web search before writing. You must:
1. Find this person's LinkedIn profile URL (search by name and company) and return it in your response.
2. Research the company: website, recent news, services, specializations, expansions. Find something specific and unique about THIS company to mention. Generic messages are not acceptable.

Company: %s
Person (full name): %s
Position/title from our list: %s

Position rule: you will return a "position" field.
- INCLUDE only titles with real decision-making power: C-level, Founder/Co-Founder, Executive VP, Managing Director, VP or Director of Operations/Supply Chain/Logistics, Head of company or core operations.
- EXCLUDE (return empty): marketing, sales, or business development roles; mid-level, specialist, coordinator, analyst, or manager titles without executive scope.
When in doubt, leave position empty.

Write one short message (3-4 sentences) that:
1. Greets %s by first name.
2. In one sentence, expresses interest in what they are doing at %s, naming the company explicitly and mentioning one specific, researched detail about it.
3. In one sentence, introduces the sender as running a startup that builds tailored AI solutions for logistics companies.
4. In one sentence, asks if they are open to a quick chat.

Return three fields: message, linkedin_url (valid LinkedIn profile URL found via search), position (per the rule above). Keep the tone professional, concise, and genuine.`,
		req.CompanyName, fullName, position, firstName, req.CompanyName)
}
