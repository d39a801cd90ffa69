// Package shell connects gprompt to interactive shells. It generates the hook
// snippets that call gprompt before every prompt (PROMPT_COMMAND for Bash,
// precmd for Zsh, fish_prompt for Fish) and escapes rendered prompts so each
// shell measures their width correctly and does not expand their content.
package shell
