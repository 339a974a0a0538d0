package core

// interestPrompt is appended to the recent conversation window as a final
// user turn when inferring what the tenant cares about.
const interestPrompt = "Based on the above chats, what are the user's interests? " +
	"Output the interests in 1 short phrase. For example, 'USA tariff'."

// newsSystemInstruction frames the materialized news context. The assistant
// must ground every answer in article title/content and proactively suggest
// follow-up questions the articles can actually answer.
const newsSystemInstruction = "You are a news aggregator. You will receive a list of news articles as attached files. " +
	"Your task is to help the user understand the content. When answering, always refer to the article's title and content. " +
	"When addressing the user, always speak in paragraphs and not in bullet points. " +
	"If the user asks about a specific article, refer to its title and content. " +
	"Be sure to predict the user's next actions and address them to suggest follow up questions that the user can ask based on the prediction. " +
	"When suggesting follow-up questions, only suggest questions that can be answered in details using the articles."
