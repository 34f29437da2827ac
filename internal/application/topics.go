package application

import "github.com/kartik99Lm10/SuckDSA/internal/domain"

var topics = []domain.Topic{
	{
		Name:        "Arrays",
		Description: "Basic data structure to store elements",
		SavageIntro: "Arrays: Not your cricket team lineup, but close enough",
		Difficulty:  "Beginner",
		Icon:        "📊",
	},
	{
		Name:        "Stacks",
		Description: "LIFO data structure",
		SavageIntro: "Stacks: Like your mom's paratha pile - last in, first out",
		Difficulty:  "Beginner",
		Icon:        "📚",
	},
	{
		Name:        "Trees",
		Description: "Hierarchical data structure",
		SavageIntro: "Trees: Not the ones outside, idiot. These grow upside down",
		Difficulty:  "Intermediate",
		Icon:        "🌳",
	},
	{
		Name:        "Graphs",
		Description: "Connected nodes and edges",
		SavageIntro: "Graphs: Like your social network, but actually useful",
		Difficulty:  "Advanced",
		Icon:        "🕸️",
	},
}

// ListTopics returns a copy of the static catalogue.
func (s *Service) ListTopics() []domain.Topic {
	out := make([]domain.Topic, len(topics))
	copy(out, topics)
	return out
}
