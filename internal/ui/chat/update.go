// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/studybuddy-tui/internal/logging"
	"github.com/jeranaias/studybuddy-tui/internal/model"
	"github.com/jeranaias/studybuddy-tui/internal/ui/components"
)

// fallbackAnswer is the canned assistant message recorded when the
// backend cannot produce an answer. It is appended and persisted like a
// normal message, so the failure stays in history.
func fallbackAnswer(question string) string {
	var sb strings.Builder
	sb.WriteString("**Unable to connect to the RAG backend**\n\n")
	sb.WriteString("The backend is not responding. Please ensure:\n\n")
	sb.WriteString("1. The backend is running at the configured URL\n")
	sb.WriteString("2. Run `cd backend && python run.py` to start it\n")
	sb.WriteString("3. Check the backend's API key configuration\n")
	if question != "" {
		sb.WriteString("\n**Your question was:** \"" + question + "\"\n")
	}
	sb.WriteString("\nOnce the backend is running, try again!")
	return sb.String()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case QueryResultMsg:
		return m.handleQueryResult(msg)

	case QueryErrorMsg:
		return m.handleQueryError(msg)

	case TranscriptionMsg:
		return m.handleTranscription(msg)

	case VoiceResultMsg:
		return m.handleVoiceResult(msg)

	case HealthMsg:
		m.health = msg.Health
		m.statusBar.SetHealth(msg.Health)
		return m, nil

	case healthTickMsg:
		return m, tea.Batch(healthCmd(m.client), healthTickCmd())

	case toastTickMsg:
		m.pruneToasts()
		return m, toastTickCmd()

	case SessionClearedMsg:
		if msg.Err != nil {
			m.pushToast(components.NewErrorToast("clear failed: " + msg.Err.Error()))
		} else {
			m.pushToast(components.NewSuccessToast("backend memory cleared"))
		}
		return m, nil
	}

	// Delegate remaining messages (spinner ticks, blink) to components.
	var cmds []tea.Cmd
	if cmd := m.spinner.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	contentHeight := msg.Height - chromeHeight
	if contentHeight < 3 {
		contentHeight = 3
	}

	if !m.ready {
		m.viewport = newViewport(msg.Width, contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = contentHeight
	}

	m.input.Width = msg.Width - 6
	m.statusBar.SetWidth(msg.Width)
	m.welcome.SetSize(msg.Width, contentHeight)
	m.msgList.Width = msg.Width - 2
	m.markdown.SetWidth(msg.Width - 14)

	m.refreshViewport()
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Session picker overlay captures navigation keys.
	if m.showSessions {
		return m.handleSessionPickerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keyMap.Cancel):
		m.showHelp = false
		return m, nil

	case key.Matches(msg, m.keyMap.NewChat):
		return m.startNewChat()

	case key.Matches(msg, m.keyMap.Sessions):
		m.showSessions = true
		m.sessionCursor = 0
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
		return m, nil
	}

	// Welcome screen shortcuts: digits pick a starter prompt.
	if len(m.sessions.Messages()) == 0 && m.input.Value() == "" {
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(components.Suggestions) {
			m.input.SetValue(components.Suggestions[n-1].Prompt)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSessionPickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	metas := m.sessions.Sessions()

	switch msg.String() {
	case "esc", "ctrl+s", "q":
		m.showSessions = false
		return m, nil

	case "up", "k":
		if m.sessionCursor > 0 {
			m.sessionCursor--
		}
		return m, nil

	case "down", "j":
		if m.sessionCursor < len(metas)-1 {
			m.sessionCursor++
		}
		return m, nil

	case "enter":
		if m.sessionCursor < len(metas) {
			m.sessions.SelectSession(metas[m.sessionCursor].ID)
			m.refreshViewport()
		}
		m.showSessions = false
		return m, nil

	case "d", "delete":
		if m.sessionCursor < len(metas) {
			id := metas[m.sessionCursor].ID
			m.sessions.DeleteSession(id)
			if m.sessionCursor > 0 {
				m.sessionCursor--
			}
			m.refreshViewport()
			// Ask the backend to forget the session too; failures only
			// surface as a toast.
			return m, clearSessionCmd(m.client, id)
		}
		return m, nil

	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// =============================================================================
// SUBMIT
// =============================================================================

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}

	if cmd, ok := parseSlashCommand(content); ok {
		m.input.SetValue("")
		return m.handleSlashCommand(cmd)
	}

	// Generating suppresses new submissions.
	if m.state == StateGenerating {
		m.pushToast(components.NewWarningToast("still thinking, hang on"))
		return m, nil
	}

	m.input.SetValue("")
	return m.submitQuestion(content)
}

// submitQuestion appends the user message plus a pending assistant
// placeholder and fires the backend query.
func (m Model) submitQuestion(question string) (tea.Model, tea.Cmd) {
	m.sessions.AddMessage(model.NewUserMessage(question))

	placeholder := model.NewAssistantMessage("", nil)
	placeholder.Pending = true
	m.sessions.AddMessage(placeholder)

	m.state = StateGenerating
	m.pendingQuestion = question
	m.refreshViewport()

	return m, tea.Batch(
		m.spinner.Start(),
		queryCmd(m.client, question, m.sessions.CurrentSessionID()),
	)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (m Model) handleSlashCommand(cmd slashCommand) (tea.Model, tea.Cmd) {
	switch cmd.name {
	case "new":
		return m.startNewChat()

	case "sessions":
		m.showSessions = true
		m.sessionCursor = 0
		return m, nil

	case "delete":
		id := m.sessions.CurrentSessionID()
		if id == "" {
			m.pushToast(components.NewStatusToast("no active session"))
			return m, nil
		}
		m.sessions.DeleteSession(id)
		m.refreshViewport()
		m.pushToast(components.NewSuccessToast("session deleted"))
		return m, clearSessionCmd(m.client, id)

	case "image":
		if len(cmd.args) == 0 {
			m.pushToast(components.NewErrorToast("usage: /image <path> [question]"))
			return m, nil
		}
		return m.submitImage(cmd.args[0], strings.Join(cmd.args[1:], " "))

	case "voice":
		if len(cmd.args) != 1 {
			m.pushToast(components.NewErrorToast("usage: /voice <path>"))
			return m, nil
		}
		return m.submitVoice(cmd.args[0])

	case "transcribe":
		if len(cmd.args) != 1 {
			m.pushToast(components.NewErrorToast("usage: /transcribe <path>"))
			return m, nil
		}
		m.pushToast(components.NewStatusToast("transcribing..."))
		return m, transcribeCmd(m.client, cmd.args[0])

	case "clear":
		id := m.sessions.CurrentSessionID()
		if id == "" {
			m.pushToast(components.NewStatusToast("no active session"))
			return m, nil
		}
		return m, clearSessionCmd(m.client, id)

	case "health":
		m.pushToast(components.NewStatusToast("probing backend..."))
		return m, healthCmd(m.client)

	case "help":
		m.showHelp = !m.showHelp
		return m, nil

	case "quit", "exit":
		return m, tea.Quit
	}

	m.pushToast(components.NewErrorToast("unknown command: /" + cmd.name))
	return m, nil
}

func (m Model) startNewChat() (tea.Model, tea.Cmd) {
	m.sessions.CreateNewChat()
	m.showSessions = false
	m.refreshViewport()
	return m, nil
}

// submitImage records the image question in the session and fires the
// multipart query.
func (m Model) submitImage(imagePath, question string) (tea.Model, tea.Cmd) {
	if m.state == StateGenerating {
		m.pushToast(components.NewWarningToast("still thinking, hang on"))
		return m, nil
	}

	display := question
	if display == "" {
		display = "What does this image show?"
	}
	m.sessions.AddMessage(model.NewUserMessage(display + "\n[image: " + imagePath + "]"))

	placeholder := model.NewAssistantMessage("", nil)
	placeholder.Pending = true
	m.sessions.AddMessage(placeholder)

	m.state = StateGenerating
	m.pendingQuestion = display
	m.refreshViewport()

	return m, tea.Batch(
		m.spinner.Start(),
		queryImageCmd(m.client, imagePath, question, m.sessions.CurrentSessionID()),
	)
}

// submitVoice fires a voice query; the user message is filled in from
// the backend's transcription when the answer arrives.
func (m Model) submitVoice(audioPath string) (tea.Model, tea.Cmd) {
	if m.state == StateGenerating {
		m.pushToast(components.NewWarningToast("still thinking, hang on"))
		return m, nil
	}

	m.state = StateGenerating
	m.spinner.SetMessage("Listening")
	m.pushToast(components.NewStatusToast("sending voice question..."))

	return m, tea.Batch(
		m.spinner.Start(),
		voiceQueryCmd(m.client, audioPath, m.sessions.CurrentSessionID(), m.cfg.Backend.GenerateAudio),
	)
}

// =============================================================================
// RESULT HANDLING
// =============================================================================

func (m Model) handleQueryResult(msg QueryResultMsg) (tea.Model, tea.Cmd) {
	content := msg.Answer
	if msg.ExtractedText != "" {
		content += "\n\n*Extracted text:* " + msg.ExtractedText
	}

	pending := false
	m.sessions.UpdateLastMessage(model.MessageUpdate{
		Content: &content,
		Sources: model.SourcesFromIdentifiers(msg.Sources),
		Pending: &pending,
	})

	m.state = StateReady
	m.pendingQuestion = ""
	m.spinner.Stop()
	m.spinner.SetMessage("Thinking")
	m.refreshViewport()
	return m, nil
}

func (m Model) handleQueryError(msg QueryErrorMsg) (tea.Model, tea.Cmd) {
	logging.L().Warn("query failed", "error", msg.Err)

	// The failure is recorded in history as a normal assistant message.
	content := fallbackAnswer(msg.Question)
	pending := false
	m.sessions.UpdateLastMessage(model.MessageUpdate{
		Content: &content,
		Sources: []model.Source{},
		Pending: &pending,
	})

	m.state = StateReady
	m.pendingQuestion = ""
	m.spinner.Stop()
	m.spinner.SetMessage("Thinking")
	m.pushToast(components.NewErrorToast(msg.Err.Error()))
	m.refreshViewport()
	return m, nil
}

func (m Model) handleTranscription(msg TranscriptionMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.pushToast(components.NewErrorToast("transcription failed: " + msg.Err.Error()))
		return m, nil
	}
	// Drop the transcription into the input for review before sending.
	m.input.SetValue(msg.Text)
	m.input.CursorEnd()
	return m, nil
}

func (m Model) handleVoiceResult(msg VoiceResultMsg) (tea.Model, tea.Cmd) {
	m.state = StateReady
	m.spinner.Stop()
	m.spinner.SetMessage("Thinking")

	if msg.Err != nil {
		logging.L().Warn("voice query failed", "error", msg.Err)
		m.pushToast(components.NewErrorToast("voice query failed: " + msg.Err.Error()))
		return m, nil
	}

	// Voice answers land as a full question/answer pair once the backend
	// has transcribed the audio.
	question := msg.Response.TranscribedQuestion
	if question == "" {
		question = "(voice question)"
	}
	m.sessions.AddMessage(model.NewUserMessage(question))
	m.sessions.AddMessage(model.NewAssistantMessage(
		msg.Response.TextResponse,
		model.SourcesFromIdentifiers(msg.Response.Sources),
	))

	if msg.Response.AudioURL != "" {
		m.pushToast(components.NewStatusToast("spoken answer: " + m.client.AudioURL(msg.Response.AudioURL)))
	}
	m.refreshViewport()
	return m, nil
}
