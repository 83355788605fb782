package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"mindhaven/internal/model"
	"mindhaven/internal/repository"
)

// DefaultMoodMessage 未知心情标签的回复
const DefaultMoodMessage = "🤗 Thank you for sharing how you feel."

var moodMessages = map[string][]string{
	"happy": {
		"😊 That's wonderful! Keep riding this positive wave!",
		"🌞 Love to see you thriving! You deserve all this joy! Keep shining!",
		"😄 Your happiness is contagious! Celebrate this moment.",
		"🎉 Awesome! Remember this feeling for tougher days.",
		"😁 Happiness suits you! Keep spreading those good vibes.",
		"🙏 Stay grateful, joy multiplies when you share it.",
		"🌈 Life feels brighter when you smile like that!",
		"✨ You're glowing with positivity! Keep that energy alive.",
	},
	"calm": {
		"🌿 Peace looks good on you. Enjoy this tranquility.",
		"🕊️ Beautiful! This is your mind finding balance.",
		"💨 Breathe it in. You've found your center today.",
		"🧘‍♂️ This stillness is healing. Soak it in.",
		"🌊 Calm is strength. You've mastered your emotions.",
		"😌 Enjoy the silence, it's your soul resting.",
		"🍃 Still waters run deep, just like your calm energy.",
		"☁️ You're radiating serenity. Keep that balance.",
	},
	"sad": {
		"💔 It's okay to feel this way. Your feelings are valid.",
		"🌧️ Tough days don't last forever. Be gentle with yourself.",
		"😔 You don't have to be strong right now. Just be.",
		"☔ This feeling will pass. You've gotten through before.",
		"🌱 Even rain nourishes the earth; sadness can help you grow.",
		"🤍 You're not alone. It's okay to take time to heal.",
		"😭 Cry if you need to. It's strength, not weakness.",
		"🌤️ Healing starts with honesty, and you've already begun.",
	},
	"anxious": {
		"🌬️ Take a deep breath. You're safe right now.",
		"🕰️ One moment at a time. You've got this.",
		"👁️ Ground yourself: name 5 things you can see right now.",
		"💪 This feeling is temporary. You're stronger than your anxiety.",
		"☁️ You are not your thoughts. Let them pass like clouds.",
		"🫁 Breathe in for calm, out for control.",
		"🧠 Anxiety lies; you've overcome before and you will again.",
		"🌸 You're allowed to pause. Calm isn't far away.",
	},
	"angry": {
		"🔥 Your anger is telling you something. It's okay to feel it but don't be irrational!",
		"⏸️ Take a pause before reacting. You're in control.",
		"💢 Feel it, acknowledge it, then let it go at your own pace.",
		"⚙️ Channel this energy into something positive when you're ready.",
		"⚡ Anger is energy; use it to build, not destroy.",
		"😤 You're allowed to feel upset; just don't let it own you.",
		"🫧 Breathe out the fire, breathe in control.",
		"🧱 You're stronger than the situation making you angry.",
	},
	"tired": {
		"😴 Rest isn't weakness, it's wisdom. Listen to your body.",
		"🛌 You deserve a break. Recharge without guilt.",
		"💤 Even superheroes need rest. Take care of yourself.",
		"☕ Your body is asking for what it needs. Honor that.",
		"🌙 Pause. Breathe. Sleep. Reset. You've earned it.",
		"🧸 Don't push too hard; recovery is part of progress.",
		"🔋 Your energy matters. Protect it.",
		"🌑 Fatigue is just your body whispering, 'slow down'.",
	},
	"neutral": {
		"😐 Sometimes, just being is enough.",
		"⚖️ It's okay to feel balanced; not every day has to be intense.",
		"🌻 Stay grounded; peace often hides in ordinary moments.",
		"🪞 Neutral days are perfect for self-reflection and calm progress.",
		"🧭 You're steady today, and that's quiet strength.",
		"🌤️ Balance feels good. Keep this gentle flow.",
		"🌾 No highs or lows, just peace. That's power.",
		"💫 Enjoy this calm middle ground; it's where clarity lives.",
	},
}

// MoodMessage 按心情标签随机返回一条鼓励语，标签不区分大小写
func MoodMessage(label string) string {
	list, ok := moodMessages[strings.ToLower(strings.TrimSpace(label))]
	if !ok || len(list) == 0 {
		return DefaultMoodMessage
	}
	return list[rand.Intn(len(list))]
}

// MoodService 心情记录
type MoodService struct {
	store *repository.Store
}

func NewMoodService(store *repository.Store) *MoodService {
	return &MoodService{store: store}
}

// Add 记录心情并返回鼓励语
func (s *MoodService) Add(ctx context.Context, userID uint, label string) (*model.Mood, string, error) {
	label = strings.TrimSpace(label)
	if userID == 0 || label == "" {
		return nil, "", validationError("user_id and emotion_label required")
	}
	store := s.store.WithContext(ctx)
	if err := requireUsers(store, userID); err != nil {
		return nil, "", err
	}
	m := &model.Mood{UserID: userID, EmotionLabel: label}
	if err := store.Moods.Create(m); err != nil {
		return nil, "", fmt.Errorf("记录心情失败: %w", err)
	}
	return m, MoodMessage(label), nil
}

// List 用户心情记录，最新在前
func (s *MoodService) List(ctx context.Context, userID uint) ([]model.Mood, error) {
	list, err := s.store.WithContext(ctx).Moods.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("查询心情记录失败: %w", err)
	}
	return list, nil
}
