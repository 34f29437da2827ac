package application

import "strings"

type fallbackEntry struct {
	keyword string
	topic   string
	text    string
}

// fallbacks are matched in order; the first keyword contained in the message wins.
var fallbacks = []fallbackEntry{
	{
		keyword: "array",
		topic:   "array",
		text:    "Arre yaar! Arrays are like your hostel mess plates - all lined up in a row, numbered 0 to n-1. You can grab any plate instantly by its position, but shifting plates around? That's like rearranging the entire mess queue - O(n) headache! 🍽️\n\nBasic operations:\n- Access: O(1) - instant like Maggi\n- Insert/Delete: O(n) - slow like BSNL internet\n\nRemember: Arrays are fixed size, like your brain capacity! 😏",
	},
	{
		keyword: "stack",
		topic:   "stack",
		text:    "Stacks? Bhai, it's like your mom's paratha pile! Last paratha goes on top, first one you eat is also from the top - LIFO (Last In, First Out)! 🥞\n\nOperations:\n- Push: Add paratha on top - O(1)\n- Pop: Take paratha from top - O(1)\n- Peek: Check top paratha without eating - O(1)\n\nUse cases: Function calls, undo operations, browser history. Simple as chai-biscuit! ☕",
	},
	{
		keyword: "linked list",
		topic:   "linked_list",
		text:    "Linked Lists = Train compartments! Each compartment (node) has passengers (data) and is connected to the next one. But unlike trains, you can't jump to any compartment directly - you have to walk from the engine! 🚂\n\nTypes:\n- Singly: One-way connection (like your ex's contact)\n- Doubly: Two-way connection (like good friendship)\n- Circular: Last connects to first (like your daily routine!)\n\nPros: Dynamic size, easy insertion\nCons: No random access, extra memory for pointers",
	},
	{
		keyword: "queue",
		topic:   "queue",
		text:    "Queue = Railway ticket counter line! First person in line gets ticket first - FIFO (First In, First Out). No cutting allowed, unlike real Indian queues! 🚂\n\nOperations:\n- Enqueue: Join the line (rear)\n- Dequeue: Get served (front)\n- Front: Check who's first\n- Rear: Check who's last\n\nAll operations O(1) - faster than actual ticket booking! Use in BFS, scheduling, handling requests.",
	},
}

const defaultFallback = "Arre yaar! The savage teacher's internet is acting like BSNL today! 😅 But here's the deal - DSA is all about understanding patterns and problem-solving. Whatever you asked about, remember: practice makes perfect, and every algorithm has its time and place. Keep coding, keep learning, and don't let temporary setbacks stop you from becoming a coding champion! 🔥\n\n(Try asking again in a moment - the teacher will be back with full savage mode!)"

// FallbackResponse picks the canned answer for a message and reports which topic matched ("default" when none).
func FallbackResponse(message string) (topic, text string) {
	lowered := strings.ToLower(message)
	for _, f := range fallbacks {
		if strings.Contains(lowered, f.keyword) {
			return f.topic, f.text
		}
	}
	return "default", defaultFallback
}
