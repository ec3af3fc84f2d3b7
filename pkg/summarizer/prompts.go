package summarizer

// summaryPromptTemplate produces the full summary for pages with enough
// readable text. The %s verb receives the (already truncated) page
// content.
const summaryPromptTemplate = `Act as an expert research assistant specializing in content distillation.

Your task is to generate a concise, neutral, and informative summary of the provided web page content. The summary helps a reader quickly understand the core topic and key takeaways of a saved link.

Input content:

%s

Output rules:
- Write a single, dense paragraph of 2 to 3 sentences.
- Identify and synthesize the main argument, key findings, or central purpose of the content.
- Maintain a neutral, objective, and encyclopedic tone.
- Paraphrase; do not copy sentences verbatim from the source text.
- Do not use introductory phrases like "This article discusses..." or "The author argues...".
- Do not include personal opinions or subjective statements.`

// classifierPromptTemplate handles low-content pages. A generic
// summarization prompt produces poor results for a fragment that is just
// a tag cloud or a nav menu; asking what the fragment is gives a cheaper
// and more honest answer.
const classifierPromptTemplate = `You are a content classification assistant. Look at a short piece of text from a web page and write a single, brief sentence describing what it appears to be. The tone should be neutral and descriptive.

Rules:
- If the text is a list of tools, libraries, or products, describe it as such. Example: "A list of design and animation libraries, including ShadCN and Framer Motion."
- If the text appears to be just a heading or title, state what the topic is. Example: "A page about modern web design techniques."
- If the text is nonsensical or just a few random words, respond with only "N/A".
- The output must be a single sentence.

Text to analyze:

%s`
