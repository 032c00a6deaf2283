package store

import "github.com/spigell/scholar-match/internal/ai"

// SeedProfiles returns a small built-in set of researcher fixtures so the
// fan-out can be demoed without enriching real profiles first.
func SeedProfiles() []ai.Candidate {
	return []ai.Candidate{
		{
			Name:        "Sarah Chen",
			Affiliation: "Stanford University",
			Summary:     "Sarah Chen researches scalable oversight and alignment of advanced AI systems, with a focus on debate protocols that let human evaluators judge tasks beyond their own expertise.",
			Papers: []ai.Paper{
				{
					Title:    "Scalable Oversight of AI Systems via Debate",
					Authors:  "S Chen, M Rodriguez, A Kumar, J Thompson",
					Abstract: "We present a novel framework for scalable oversight of advanced AI systems using structured debate protocols. Our approach enables human evaluators to judge the safety and alignment of AI systems performing tasks beyond human expertise.",
					URL:      "https://arxiv.org/abs/2405.06782",
					Year:     "2024",
				},
				{
					Title:    "Interpretability Probes for Alignment Auditing",
					Authors:  "S Chen, L Park",
					Abstract: "We introduce lightweight interpretability probes that surface alignment-relevant features in large language models during audits.",
					URL:      "https://arxiv.org/abs/2311.09121",
					Year:     "2023",
				},
			},
		},
		{
			Name:        "Marcus Rodriguez",
			Affiliation: "MIT",
			Summary:     "Marcus Rodriguez works on efficient training of large neural networks and the systems side of production machine learning.",
			Papers: []ai.Paper{
				{
					Title:    "Scalable Methods for Neural Network Training",
					Authors:  "M Rodriguez, L Chen",
					Abstract: "We propose scalable methods for training large neural networks that significantly reduce computational overhead while maintaining model accuracy.",
					URL:      "https://arxiv.org/abs/2306.04175",
					Year:     "2023",
				},
			},
		},
		{
			Name:        "Priya Natarajan",
			Affiliation: "Carnegie Mellon University",
			Summary:     "Priya Natarajan studies interpretability and explainability of modern machine learning systems, combining visualization with formal analysis.",
			Papers: []ai.Paper{
				{
					Title:    "Interpretability in Modern Machine Learning Systems",
					Authors:  "P Natarajan, T Johnson",
					Abstract: "We investigate methods for improving interpretability in complex machine learning systems, combining visualization techniques with formal analysis of model behavior.",
					URL:      "https://arxiv.org/abs/2210.01234",
					Year:     "2022",
				},
				{
					Title:    "Efficient Optimization Techniques for Deep Networks",
					Authors:  "P Natarajan, S Lee, D Martinez",
					Abstract: "This paper introduces efficient optimization techniques for deep neural networks with significant improvements in convergence speed.",
					URL:      "https://arxiv.org/abs/2203.05567",
					Year:     "2022",
				},
			},
		},
	}
}
