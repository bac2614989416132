package catalog

// Fixtures returns the bundled course definitions.
func Fixtures() []Definition {
	return []Definition{
		{
			ID:          "first-aid",
			Title:       "First Aid",
			Tier:        TierLongForm,
			Description: "Learn essential life-saving skills to manage emergencies and injuries effectively.",
			Overview:    "This comprehensive program covers a wide range of first aid techniques, ensuring that you are prepared to handle various medical situations with competence and care.",
			Highlights: []Highlight{
				{
					Title:    "Introduction to First Aid",
					Overview: "Understanding the principles and importance of first aid.",
					Items: []string{
						"Understanding the principles and importance of first aid.",
						"Legal and ethical considerations in providing assistance.",
						"Basic equipment and supplies.",
					},
				},
				{
					Title:    "CPR and AED Training",
					Overview: "Cardiopulmonary resuscitation techniques for all ages.",
					Items: []string{
						"Cardiopulmonary resuscitation (CPR) techniques for adults, children, and infants.",
						"Proper use of Automated External Defibrillators (AEDs).",
						"Recognizing and responding to cardiac emergencies.",
					},
				},
			},
			Benefits: []string{
				"Expert Instructors: Learn from certified professionals with extensive experience in emergency medical services.",
				"Hands-On Learning: Gain practical experience through interactive sessions and real-life simulations.",
				"Flexible Schedule: Options for evening and weekend classes to fit your busy lifestyle.",
				"Certification: Receive a nationally recognized certificate upon successful completion.",
			},
			WhoShouldEnroll: []string{
				"This program is ideal for individuals who want to enhance their ability to respond effectively in emergency situations, including parents, teachers, coaches, and anyone interested in acquiring life-saving skills.",
			},
		},
		{
			ID:          "sewing",
			Title:       "Sewing",
			Tier:        TierLongForm,
			Description: "Master the art of sewing, from basic techniques to creating beautiful garments.",
			Overview:    "Our comprehensive sewing program takes you from basic stitching to advanced garment construction, empowering you to create beautiful, professional-quality clothing and textiles.",
			Highlights: []Highlight{
				{
					Title:    "Basic Sewing Techniques",
					Overview: "Foundation skills for all sewing projects.",
					Items: []string{
						"Understanding different fabrics and their properties",
						"Basic hand stitches and machine operation",
						"Reading and understanding patterns",
					},
				},
				{
					Title:    "Garment Construction",
					Overview: "Learn to create complete clothing items.",
					Items: []string{
						"Taking accurate body measurements",
						"Cutting and assembling garments",
						"Finishing techniques and alterations",
					},
				},
			},
			Benefits: []string{
				"Expert Instruction: Learn from experienced fashion designers and tailors",
				"Professional Equipment: Access to industrial sewing machines and tools",
				"Portfolio Development: Create multiple finished projects for your portfolio",
				"Business Skills: Learn how to start your own sewing business",
			},
			WhoShouldEnroll: []string{
				"Aspiring fashion designers, tailors, hobbyists, and anyone interested in creating their own clothing or starting a sewing business.",
			},
		},
		{
			ID:          "landscaping",
			Title:       "Landscaping",
			Tier:        TierLongForm,
			Description: "Gain skills to design and maintain beautiful outdoor spaces with a focus on sustainability.",
			Overview:    "Transform outdoor spaces into beautiful, functional, and sustainable environments with our comprehensive landscaping program that combines design principles with practical horticultural skills.",
			Highlights: []Highlight{
				{
					Title:    "Landscape Design Principles",
					Overview: "Fundamentals of creating beautiful outdoor spaces.",
					Items: []string{
						"Understanding space, form, and function in landscape design",
						"Creating design plans and blueprints",
						"Selecting appropriate plants for different environments",
					},
				},
				{
					Title:    "Sustainable Landscaping",
					Overview: "Environmentally friendly landscaping practices.",
					Items: []string{
						"Water conservation and irrigation systems",
						"Native plant selection and ecosystem preservation",
						"Organic gardening and natural pest control",
					},
				},
			},
			Benefits: []string{
				"Hands-On Projects: Work on real landscaping projects throughout the course",
				"Industry Connections: Network with landscaping professionals and companies",
				"Business Training: Learn how to start and manage a landscaping business",
				"Certification: Receive recognized credentials in sustainable landscaping",
			},
			WhoShouldEnroll: []string{
				"Aspiring landscapers, gardeners, property managers, and anyone passionate about creating beautiful and sustainable outdoor environments.",
			},
		},
		{
			ID:          "life-skills",
			Title:       "Life Skills",
			Tier:        TierLongForm,
			Description: "Develop essential life skills to enhance your personal and professional development.",
			Overview:    "Build a strong foundation for personal and professional success with our comprehensive life skills program that covers essential areas for modern living and career advancement.",
			Highlights: []Highlight{
				{
					Title:    "Financial Literacy",
					Overview: "Managing personal finances effectively.",
					Items: []string{
						"Budgeting and expense tracking",
						"Understanding credit and debt management",
						"Basic investment principles and savings strategies",
					},
				},
				{
					Title:    "Communication Skills",
					Overview: "Effective interpersonal and professional communication.",
					Items: []string{
						"Verbal and non-verbal communication techniques",
						"Conflict resolution and negotiation skills",
						"Professional email and business writing",
					},
				},
			},
			Benefits: []string{
				"Practical Application: Real-world scenarios and role-playing exercises",
				"Personalized Coaching: One-on-one sessions with life skills coaches",
				"Career Development: Resume building and interview preparation",
				"Community Building: Connect with peers on similar personal growth journeys",
			},
			WhoShouldEnroll: []string{
				"Young adults entering the workforce, career changers, and anyone looking to enhance their personal effectiveness and professional capabilities.",
			},
		},
		{
			ID:          "child-minding",
			Title:       "Child Minding",
			Tier:        TierShortForm,
			Description: "Gain expertise in early childhood development and create safe environments for children.",
			Overview:    "Our Child-Minding Training Program is designed to provide caregivers, parents, and professionals with the skills and knowledge needed to ensure the well-being, safety, and development of children.",
			Highlights: []Highlight{
				{
					Title:    "Introduction to Child-Minding: Roles and Responsibilities",
					Overview: "This foundational class introduces the core responsibilities and best practices of child-minding.",
					Items: []string{
						"Overview of the child-minding role: duties and expectations.",
						"Understanding child development stages and their impact on care.",
						"Creating a safe and nurturing environment for children.",
						"Effective communication with children and parents.",
					},
					Project:  "Develop a basic child-minding plan that includes daily routines, activities, and safety measures.",
					Audience: "New caregivers, parents, and individuals interested in learning the fundamentals of child-minding.",
				},
			},
			Benefits: []string{
				"Expert Instructors: Learn from experienced child care professionals with extensive knowledge in child development and safety.",
				"Hands-On Learning: Engage in practical exercises and real-life scenarios to reinforce learning.",
				"Personalized Guidance: Receive feedback and support tailored to your specific child-minding needs.",
				"Flexible Scheduling: Classes available at various times to accommodate different schedules.",
			},
			WhoShouldEnroll: []string{
				"Our program is suitable for parents, caregivers, child care professionals, and anyone interested in enhancing their skills in child-minding.",
			},
		},
		{
			ID:          "cooking",
			Title:       "Cooking & Nutrition",
			Tier:        TierShortForm,
			Description: "Master the art of preparing nutritious, balanced meals for modern households.",
			Overview:    "Our Cooking & Nutrition Training Program is designed to provide caregivers, household cooks, and food enthusiasts with the skills and knowledge needed to prepare healthy, delicious meals for families and individuals.",
			Highlights: []Highlight{
				{
					Title:    "Introduction to Cooking & Nutrition: Kitchen Fundamentals",
					Overview: "This foundational class introduces essential cooking techniques and nutritional principles.",
					Items: []string{
						"Overview of basic cooking methods and kitchen safety.",
						"Understanding nutritional requirements for different age groups.",
						"Meal planning and preparation for balanced diets.",
						"Food storage, hygiene, and kitchen organization.",
					},
					Project:  "Develop a weekly meal plan that includes balanced nutrition and considers dietary preferences.",
					Audience: "Beginner cooks, domestic workers, and individuals interested in learning cooking fundamentals.",
				},
			},
			Benefits: []string{
				"Expert Instructors: Learn from experienced chefs and nutritionists with extensive knowledge in food preparation and dietary planning.",
				"Hands-On Learning: Engage in practical cooking sessions and recipe development to reinforce learning.",
				"Personalized Guidance: Receive feedback and support tailored to your specific cooking needs and dietary requirements.",
				"Flexible Scheduling: Classes available at various times to accommodate different schedules.",
			},
			WhoShouldEnroll: []string{
				"Our program is suitable for domestic workers, household cooks, parents, and anyone interested in enhancing their cooking skills and nutritional knowledge.",
			},
		},
		{
			ID:          "garden-maintenance",
			Title:       "Garden Maintenance",
			Tier:        TierShortForm,
			Description: "Learn essential gardening skills to create and maintain beautiful outdoor spaces.",
			Overview:    "Our Garden Maintenance Training Program is designed to provide gardeners, property caretakers, and outdoor enthusiasts with the skills and knowledge needed to create and maintain beautiful, healthy outdoor environments.",
			Highlights: []Highlight{
				{
					Title:    "Introduction to Garden Maintenance: Basic Gardening Principles",
					Overview: "This foundational class introduces essential gardening techniques and plant care principles.",
					Items: []string{
						"Overview of garden maintenance tasks and seasonal requirements.",
						"Understanding plant growth and soil management basics.",
						"Proper use and maintenance of gardening tools and equipment.",
						"Watering systems and sustainable gardening practices.",
					},
					Project:  "Develop a basic garden maintenance plan that includes seasonal tasks and plant care schedules.",
					Audience: "Beginner gardeners, property caretakers, and individuals interested in learning garden maintenance fundamentals.",
				},
			},
			Benefits: []string{
				"Expert Instructors: Learn from experienced horticulturists and garden professionals with extensive knowledge in plant care and landscape maintenance.",
				"Hands-On Learning: Engage in practical gardening sessions and real-life maintenance scenarios to reinforce learning.",
				"Personalized Guidance: Receive feedback and support tailored to your specific gardening needs and environmental conditions.",
				"Flexible Scheduling: Classes available at various times to accommodate different schedules.",
			},
			WhoShouldEnroll: []string{
				"Our program is suitable for gardeners, domestic workers, property managers, and anyone interested in enhancing their skills in garden maintenance and plant care.",
			},
		},
	}
}
