package analysis

// Operation tags for generation calls; the audit log records them and the
// mock provider keys its deterministic output off them.
const (
	OpRetrievalSummary      = "retrieval_summary"
	OpEmotionAnalysis       = "emotion_analysis"
	OpTopicExtraction       = "topic_extraction"
	OpQuestionExtraction    = "question_extraction"
	OpChunkSummary          = "chunk_summary"
	OpUnifiedSummary        = "unified_summary"
	OpStructuredSummary     = "structured_summary"
	OpUnmetNeeds            = "unmet_needs"
	OpProductRecommendation = "product_recommendation"
	OpNextSteps             = "next_steps"
	OpInquiryExtraction     = "product_inquiry_extraction"
	OpRelevanceCheck        = "relevance_check"
)

// Structured summary section markers. The prompt and the parser must agree
// on these strings; change them in one place only.
var summarySections = []SectionMarker{
	{Key: "client_goals", Marker: "**Client's Goals/Questions:**"},
	{Key: "advisor_recommendations", Marker: "**Advisor's Analysis & Recommendations:**"},
	{Key: "action_items", Marker: "**Action Items / Next Steps:**"},
	{Key: "client_reactions", Marker: "**Client's Reactions/Concerns:**"},
}

const emotionSummaryMarker = "Step 3 - Summarize emotional insights:"

const retrievalSummaryPrompt = `Based on the following %s information, provide a concise summary relevant to: %s

%s Information:
%s

Summary:`

const emotionAnalysisPrompt = `You are analyzing a transcript of a conversation between a financial advisor and a client.
Use step-by-step reasoning to identify the emotional cues and sentiment in the conversation.

First, identify all statements that indicate the client's emotions or attitudes.
Then, deduce the client's underlying concerns or needs from those.
Finally, summarize these insights in a concise way.

Transcript:
%s

Step 1 - Identify statements indicating emotions:

Step 2 - Deduce underlying concerns/needs:

Step 3 - Summarize emotional insights:`

const topicExtractionPrompt = `Analyze the following transcript of a conversation between a financial advisor and a client.
Identify the main financial topics discussed and list them in order of importance.
For each topic, provide a brief one-line description.

Transcript:
%s

Main Topics (in order of importance):`

const questionExtractionPrompt = `Review the following transcript of a conversation between a financial advisor and a client.
Extract all questions asked by the client, both explicit questions and implied questions.
For implied questions, explain what indicates the client's curiosity or concern.

Transcript:
%s

Client Questions:`

const chunkSummaryPrompt = `Summarize the following excerpt from a conversation between a financial advisor and a client.
Focus on key financial points, questions, concerns, and decisions made.

Conversation Excerpt:
%s

Summary:`

const unifiedSummaryPrompt = `Below are summaries of different parts of a conversation between a financial advisor and a client.
Create a coherent, concise overall summary of the entire conversation while preserving all key details.

Chunk Summaries:
%s

Overall Summary:`

const structuredSummaryPrompt = `Create a structured summary of the following conversation between a financial advisor and a client.
The summary should be organized into specific sections as outlined below.

Transcript:
%s

Emotional Analysis:
%s

Main Topics:
%s

Please provide the summary in the following format:

**Client's Goals/Questions:**
(List the main goals and questions the client had)

**Advisor's Analysis & Recommendations:**
(Summarize the key analyses and specific recommendations the advisor provided)

**Action Items / Next Steps:**
(List concrete next steps agreed upon, with any deadlines or timelines)

**Client's Reactions/Concerns:**
(Summarize how the client responded to the advice, any concerns raised)

Keep each section concise but comprehensive. Use bullet points where appropriate.`

const unmetNeedsPrompt = `Analyze the following information about a client's financial situation, the topics discussed
in their conversation with a financial advisor, and the emotional insights from that conversation.

Client Information:
%s

Topics Discussed:
%s

Emotional Insights:
%s

Based on this information, identify any unmet financial needs or gaps in the client's financial portfolio.
Consider areas that were not adequately addressed in the conversation or products/services that
the client might benefit from but were not discussed.

List the unmet needs in order of priority, with a brief explanation for each.`

const productRecommendationPrompt = `Based on the client's information and identified unmet financial needs, recommend specific financial products
or services that would address these needs. Consider the client's current situation and priorities.

Client Information:
%s

Unmet Financial Needs:
%s

Relevant Product Information:
%s

For each recommendation, provide:
1. The specific product or service name
2. How it addresses the client's needs
3. Why it's a good fit for this particular client
4. Any considerations or caveats the advisor should mention

List your recommendations in priority order (most important first).`

const nextStepsPrompt = `Based on the conversation summary and product recommendations, suggest a prioritized list of next steps
for the financial advisor to take with this client. Include specific actions, their purpose, and suggested timeframes.

Client's Goals/Questions:
%s

Advisor's Recommendations from Meeting:
%s

Action Items Already Identified:
%s

Additional Product Recommendations:
%s

Suggest a comprehensive list of next steps that combines the action items already identified in the meeting
with additional steps based on the recommended products. For each step, specify:

1. The action to take
2. Why it's important
3. When it should be done (timeframe)
4. Any prerequisites or dependencies

Format each step as: "ACTION: [description] - TIMEFRAME: [when] - PURPOSE: [why]"`

const inquiryExtractionPrompt = `Extract ONLY product-related inquiries or requests from this conversation.
Focus on specific products or services the client is asking about.
DO NOT include general financial advice requests.

Conversation:
%s

Return a JSON object with these fields (only include fields that are explicitly mentioned):
{
    "product_inquiries": [
        {
            "product_type": "type of product/service inquired about",
            "specific_need": "specific need or requirement mentioned",
            "context": "brief context of the inquiry"
        }
    ]
}

If no product inquiries are mentioned, return an empty list for product_inquiries.`

const relevanceCheckPrompt = `Given the following product inquiry and retrieved result, determine if the result is relevant to the inquiry.
Return only "true" or "false".

Inquiry: %s
Retrieved Result: %s`
