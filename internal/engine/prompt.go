package engine

// LLM prompt templates: data only, no logic.

// explainSentencePrompt explains one caption sentence for a learner.
// Args: sentence.
const explainSentencePrompt = `You are an English teacher helping a learner who is listening to a video.
Explain the sentence below in plain text (no markdown):

1. The meaning of the whole sentence in simple English.
2. Up to five words or phrases that a learner may not know, each with a short definition.
3. One grammar point worth noticing, if any.

Keep it under 150 words.

Sentence: %s`
