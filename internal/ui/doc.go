// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for running research jobs:
//  1. [TopicInputView] : Enter a topic for a new research job
//  2. [DepthSelectView] : Choose how thorough the research should be
//  3. [ProgressView] : Watch polled progress until the job finishes
//  4. [ArticleView] : Read the generated article
//  5. [ResultListView] : Browse previously completed results
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress flows through a channel of session.ProgressEvent values emitted by
// the poller, providing non-blocking status reporting while a job runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
