// Package chat implements the scripted companion responder: a
// priority-ordered decision table matched against user input.
//
// Branch ordering is load-bearing. Matching is first-branch-wins on
// substring containment over the case-folded input, so earlier branches
// take precedence when triggers overlap. The final branch has no triggers
// and catches everything, including empty input.
package chat

import "strings"

// Reply is one companion turn: an empathetic paragraph plus canned
// follow-up suggestions the user can tap.
type Reply struct {
	Content     string
	Suggestions []string
}

type branch struct {
	triggers []string
	reply    Reply
}

// branches is the ordered decision table. Evaluated top to bottom;
// the last entry is the general supportive default.
var branches = []branch{
	{
		triggers: []string{"stress", "overwhelmed"},
		reply: Reply{
			Content: "I hear that you're feeling stressed and overwhelmed. These feelings are completely valid, and it's important to acknowledge them. Stress can feel consuming, but there are ways to manage it. Would you like to explore some coping strategies together?",
			Suggestions: []string{
				"Tell me about breathing exercises",
				"I need help managing my workload",
				"What are some quick stress relief techniques?",
				"I want to talk about what's causing my stress",
			},
		},
	},
	{
		triggers: []string{"anxious", "anxiety", "worried"},
		reply: Reply{
			Content: "Anxiety can be really challenging to deal with, and I want you to know that what you're experiencing is real and valid. Many people struggle with anxious thoughts and feelings. You're not alone in this. Can you tell me more about what's been making you feel anxious lately?",
			Suggestions: []string{
				"What is the 5-4-3-2-1 grounding technique?",
				"I have racing thoughts",
				"I'm worried about the future",
				"Help me understand my anxiety triggers",
			},
		},
	},
	{
		triggers: []string{"sad", "depressed", "down"},
		reply: Reply{
			Content: "I'm sorry you're feeling this way. Sadness and low moods are difficult emotions to carry, but they're also a natural part of the human experience. It's okay to feel sad, and it's brave of you to reach out. Remember that these feelings, while painful, are temporary. What's been weighing on your heart lately?",
			Suggestions: []string{
				"I don't feel like doing anything",
				"How can I improve my mood?",
				"I feel isolated and alone",
				"Tell me about depression resources",
			},
		},
	},
	{
		triggers: []string{"sleep", "tired", "insomnia"},
		reply: Reply{
			Content: "Sleep issues can really impact how we feel during the day. Good sleep is so important for our mental health and overall wellbeing. There are several strategies that can help improve sleep quality. What specific sleep challenges are you experiencing?",
			Suggestions: []string{
				"I can't fall asleep at night",
				"I wake up frequently during the night",
				"What is good sleep hygiene?",
				"I'm having nightmares",
			},
		},
	},
	{
		triggers: []string{"work", "job"},
		reply: Reply{
			Content: "Work-related stress is incredibly common, and it sounds like your job is impacting your wellbeing. It's important to find ways to manage work stress and maintain boundaries. Your mental health matters more than any job. What aspects of work are causing you the most difficulty?",
			Suggestions: []string{
				"I'm burned out from work",
				"My boss is causing me stress",
				"How do I set work boundaries?",
				"I'm considering changing jobs",
			},
		},
	},
	{
		triggers: []string{"relationship", "family", "friend"},
		reply: Reply{
			Content: "Relationships can be both a source of great joy and significant stress. It sounds like you're dealing with some interpersonal challenges. Healthy relationships require communication, boundaries, and mutual respect. What's been happening in your relationships that's concerning you?",
			Suggestions: []string{
				"I'm having conflict with someone close to me",
				"I feel misunderstood by others",
				"How do I communicate better?",
				"I'm feeling lonely",
			},
		},
	},
	{
		triggers: []string{"thank", "better", "good"},
		reply: Reply{
			Content: "I'm so glad to hear that you're feeling better! It's wonderful that you're taking care of your mental health and reaching out for support. Remember that healing isn't always linear - there will be good days and challenging days, and that's completely normal. Keep up the great work in prioritizing your wellbeing.",
			Suggestions: []string{
				"How can I maintain this positive momentum?",
				"What should I do when I have bad days?",
				"I want to help others who are struggling",
				"Tell me about building resilience",
			},
		},
	},
	{
		// Default branch: no triggers, matches everything.
		reply: Reply{
			Content: "Thank you for sharing that with me. I'm here to listen and support you through whatever you're experiencing. Your feelings and experiences are valid, and it takes courage to open up about them. How are you feeling right now, and what would be most helpful for you today?",
			Suggestions: []string{
				"I'm not sure how I'm feeling",
				"I need coping strategies",
				"I want to understand my emotions better",
				"Can you help me find professional help?",
			},
		},
	},
}

// Respond returns the first branch whose trigger appears in the input.
// Deterministic; the no-match and empty-input cases fall through to the
// general supportive branch.
func Respond(input string) Reply {
	lower := strings.ToLower(input)
	for _, b := range branches {
		if len(b.triggers) == 0 {
			return b.reply
		}
		for _, trigger := range b.triggers {
			if strings.Contains(lower, trigger) {
				return b.reply
			}
		}
	}
	return branches[len(branches)-1].reply
}
