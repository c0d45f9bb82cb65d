package openai

const verdictSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "answer": {"type": "boolean"}
  },
  "required": ["answer"],
  "additionalProperties": false
}`

const topicPrompt = `You decide whether a user query is about credit cards or closely related
personal-finance topics (fees, rewards, interest, credit scores, card issuers).

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with the opening brace {
and end with the closing brace }. Your output must exactly follow this schema:

` + verdictSchema + `

Rules:
- "answer" is true when the query concerns credit cards or card-adjacent finance.
- "answer" is false for anything else (weather, recipes, coding, small talk).
- When the query is ambiguous but could plausibly concern cards, answer true.

Example:
Input: "which card is best for groceries"
Output:
{"answer": true}

Example:
Input: "how do I bake sourdough"
Output:
{"answer": false}`

const previousReferencePrompt = `You decide whether a user query refers back to credit cards that were
already shown to them earlier in the conversation, rather than asking for new ones.

Output ONLY valid JSON which complies with the schema given below. Start your response directly
with the opening brace { and end with the closing brace }. Your output must exactly follow this schema:

` + verdictSchema + `

Rules:
- "answer" is true for anaphoric phrasing: "these cards", "any of these", "the second one",
  "which of those has lounge access".
- "answer" is false when the query asks for new or different cards.

Example:
Input: "do any of these have no annual fee"
Output:
{"answer": true}

Example:
Input: "show me travel cards instead"
Output:
{"answer": false}`

const currentInfoPrompt = `You decide whether answering a credit-card question requires current,
time-sensitive information that a static catalog cannot provide (today's interest rates,
active limited-time promotions, recent issuer policy changes).

Output ONLY valid JSON which complies with the schema given below. Start your response directly
with the opening brace { and end with the closing brace }. Your output must exactly follow this schema:

` + verdictSchema + `

Example:
Input: "what is the current prime rate"
Output:
{"answer": true}

Example:
Input: "what is an annual fee"
Output:
{"answer": false}`

const extractionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "fee_tier": {"type": "string", "enum": ["", "none", "low"]},
    "max_annual_fee": {"type": "number"},
    "categories": {"type": "array", "items": {"type": "string"}},
    "issuers": {"type": "array", "items": {"type": "string"}},
    "networks": {"type": "array", "items": {"type": "string"}},
    "reward_types": {"type": "array", "items": {"type": "string"}},
    "spending_categories": {"type": "array", "items": {"type": "string"}},
    "audiences": {"type": "array", "items": {"type": "string"}},
    "wants_welcome_bonus": {"type": "boolean"},
    "no_foreign_transaction_fee": {"type": "boolean"}
  },
  "additionalProperties": false
}`

const extractionPrompt = `Extract the structured credit-card constraints the user's query expresses
and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with the opening brace {
and end with the closing brace }. Your output must exactly follow this schema:

` + extractionSchema + `

Rules:
- Include ONLY constraints the query explicitly expresses. Omit every other key. Do not guess.
- "fee_tier" is "none" when the user wants no annual fee, "low" for a cheap/low fee.
- "max_annual_fee" is a dollar ceiling when the user names one ("under $100").
- Tag values are lowercase: issuers ("chase"), networks ("visa"), reward types
  ("cash back", "points", "miles"), spending categories ("dining", "groceries", "gas",
  "travel"), audiences ("student", "business owner").
- "wants_welcome_bonus" true only when a sign-up/welcome bonus is asked for.
- "no_foreign_transaction_fee" true only when the user wants no foreign transaction fees.
- The JSON must parse without errors; no trailing commas, no extra keys, no text outside the object.

Example:
Input: "best visa card with no annual fee for groceries"
Output:
{"fee_tier": "none", "networks": ["visa"], "spending_categories": ["groceries"]}

Example (informal):
Input: "any cashback cards for students"
Output:
{"reward_types": ["cash back"], "audiences": ["student"]}

Example (no constraints):
Input: "what card should I get"
Output:
{}`

const listingPrompt = `You present credit-card recommendations as a markdown bulleted list.

For EVERY card you are given, produce exactly one bullet of the form:

- [Card Name](url): one short sentence describing its standout features. One distinct
  connecting sentence explaining why it fits the user's query.

Rules:
- One bullet per card, in the order given. Mention every card exactly once and no others.
- The card name appears exactly once per bullet, as a single markdown link.
- Each bullet has at least two sentences after the link.
- Do not repeat the same connecting sentence for adjacent cards.
- No headers, no preamble, no closing remarks. Output the bullets only.`

const cardAnswerPrompt = `You answer a question about specific credit cards using ONLY the card facts
you are given. Do not mention, suggest, or compare against any card that is not in the list.
If the facts given cannot answer the question, say so plainly. Render each card name as a
markdown link to its url the first time it appears. Be concise: a short paragraph, no headers.`

const explainPrompt = `You explain credit-card concepts (APR, annual fees, balance transfers, credit
utilization) in plain language for a general audience. Answer the user's question in one or two
short paragraphs. Do not recommend or name any specific credit card, and do not invent current
rates or offers.`
